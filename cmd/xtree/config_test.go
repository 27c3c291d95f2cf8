package main

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/lib/tree"
)

func envOf(kv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := kv[key]
		return v, ok
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(nil, nil, io.Discard)
	require.NoError(t, err)
	require.Equal(t, []tree.Strategy{tree.Unbalanced, tree.HeightBalanced, tree.MoveToRoot}, cfg.strategies)
	require.Equal(t, tree.InOrder, cfg.order)
	require.Equal(t, 1000, cfg.keys)
	require.Equal(t, 4, cfg.workers)
	require.Equal(t, metricsNone, cfg.metrics)
	require.Equal(t, ".", cfg.dumpDir)
	require.False(t, cfg.printDump)
}

func TestParseConfig_FlagsAndEnv(t *testing.T) {
	cfg, err := parseConfig(
		[]string{"--strategy", "avl,splay,avl", "--order=level", "--keys", "10", "-v"},
		envOf(map[string]string{
			"XTREE_KEYS":             "99",
			"XTREE_SEED":             "42",
			"XTREE_PRINT_DUMP":       "true",
			"XTREE_METRICS":          "console",
			"XTREE_METRICS_INTERVAL": "1s",
		}),
		io.Discard,
	)
	require.NoError(t, err)
	require.Equal(t, []tree.Strategy{tree.HeightBalanced, tree.MoveToRoot}, cfg.strategies)
	require.Equal(t, tree.LevelOrder, cfg.order)
	// The command line wins over the environment.
	require.Equal(t, 10, cfg.keys)
	require.Equal(t, uint64(42), cfg.seed)
	require.True(t, cfg.printDump)
	require.True(t, cfg.verbose)
	require.Equal(t, metricsConsole, cfg.metrics)
	require.Equal(t, time.Second, cfg.metricsInterval)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := parseConfig([]string{"--unknown"}, nil, io.Discard)
	require.Error(t, err)

	_, err = parseConfig(nil, envOf(map[string]string{"XTREE_WORKERS": "many"}), io.Discard)
	require.ErrorContains(t, err, "XTREE_WORKERS")

	_, err = parseConfig([]string{
		"--strategy", "rb",
		"--order", "zigzag",
		"--keys", "-1",
		"--workers", "0",
		"--metrics", "statsd",
	}, nil, io.Discard)
	require.Len(t, multierr.Errors(err), 5)
}
