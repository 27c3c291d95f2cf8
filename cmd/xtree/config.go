package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/lib/tree"
)

const envPrefix = "XTREE_"

type metricsMode string

const (
	metricsNone       metricsMode = "none"
	metricsConsole    metricsMode = "console"
	metricsPrometheus metricsMode = "prometheus"
)

var (
	strategyNames = map[string]tree.Strategy{
		tree.Unbalanced.String():     tree.Unbalanced,
		tree.HeightBalanced.String(): tree.HeightBalanced,
		tree.MoveToRoot.String():     tree.MoveToRoot,
	}
	orderNames = map[string]tree.TraversalOrder{
		"in":    tree.InOrder,
		"pre":   tree.PreOrder,
		"post":  tree.PostOrder,
		"level": tree.LevelOrder,
	}
)

type config struct {
	strategies      []tree.Strategy
	order           tree.TraversalOrder
	keys            int
	seed            uint64
	dumpDir         string
	dump            string
	workers         int
	printDump       bool
	verbose         bool
	metrics         metricsMode
	metricsAddr     string
	metricsInterval time.Duration
}

// parseConfig reads the flags, a flag absent from args falls back to
// the XTREE_<FLAG> environment variable. Usage is printed to usageOut.
func parseConfig(args []string, lookupEnv func(string) (string, bool), usageOut io.Writer) (*config, error) {
	fs := pflag.NewFlagSet("xtree", pflag.ContinueOnError)
	fs.SetOutput(usageOut)
	strategy := fs.String("strategy", "all", "balancing strategy: bst, avl, splay or all")
	order := fs.String("order", "in", "printed traversal order: in, pre, post or level")
	keys := fs.Int("keys", 1000, "number of random keys when no dump is given")
	seed := fs.Uint64("seed", uint64(time.Now().UnixNano()), "random workload seed")
	dumpDir := fs.String("dump-dir", ".", "base directory of the dump files")
	dump := fs.String("dump", "", "text dump to load, relative to --dump-dir")
	workers := fs.Int("workers", 4, "worker pool size")
	printDump := fs.Bool("print-dump", false, "print the text dump of every resulting tree")
	verbose := fs.BoolP("verbose", "v", false, "debug logs")
	metrics := fs.String("metrics", string(metricsNone), "metrics exporter: none, console or prometheus")
	metricsAddr := fs.String("metrics-addr", ":9464", "prometheus scrape address")
	metricsInterval := fs.Duration("metrics-interval", 5*time.Second, "console exporter interval")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	var merr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || lookupEnv == nil {
			return
		}
		name := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if v, ok := lookupEnv(name); ok {
			if err := fs.Set(f.Name, v); err != nil {
				merr = multierr.Append(merr, fmt.Errorf("env %s: %w", name, err))
			}
		}
	})
	if merr != nil {
		return nil, merr
	}

	cfg := &config{
		keys:            *keys,
		seed:            *seed,
		dumpDir:         *dumpDir,
		dump:            *dump,
		workers:         *workers,
		printDump:       *printDump,
		verbose:         *verbose,
		metrics:         metricsMode(*metrics),
		metricsAddr:     *metricsAddr,
		metricsInterval: *metricsInterval,
	}
	if *strategy == "all" {
		cfg.strategies = []tree.Strategy{tree.Unbalanced, tree.HeightBalanced, tree.MoveToRoot}
	} else {
		for _, name := range lo.Uniq(strings.Split(*strategy, ",")) {
			s, ok := strategyNames[strings.TrimSpace(name)]
			if !ok {
				merr = multierr.Append(merr, fmt.Errorf("unknown strategy %q", name))
				continue
			}
			cfg.strategies = append(cfg.strategies, s)
		}
	}
	if o, ok := orderNames[*order]; ok {
		cfg.order = o
	} else {
		merr = multierr.Append(merr, fmt.Errorf("unknown traversal order %q", *order))
	}
	if cfg.keys < 0 {
		merr = multierr.Append(merr, fmt.Errorf("negative key count %d", cfg.keys))
	}
	if cfg.workers <= 0 {
		merr = multierr.Append(merr, fmt.Errorf("worker pool size must be positive, got %d", cfg.workers))
	}
	switch cfg.metrics {
	case metricsNone, metricsPrometheus:
	case metricsConsole:
		if cfg.metricsInterval <= 0 {
			merr = multierr.Append(merr, fmt.Errorf("non positive metrics interval %s", cfg.metricsInterval))
		}
	default:
		merr = multierr.Append(merr, fmt.Errorf("unknown metrics exporter %q", cfg.metrics))
	}
	if merr != nil {
		return nil, merr
	}
	return cfg, nil
}
