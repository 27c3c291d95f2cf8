// Command xtree builds binary search trees under every balancing strategy
// from a text dump or from random keys, runs a random workload on each of
// them concurrently and checks the tree invariants.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/lib/infra"
	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/lib/tree"
	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/observability"
	"github.com/RyanEubank/Algorithms-And-DataStructures-sub000/xlog"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.LookupEnv, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	} else if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app := newApp(cfg, os.Stdout)
	startCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err = app.Start(startCtx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sig := <-app.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer stopCancel()
	if err = app.Stop(stopCtx); err != nil && sig.ExitCode == 0 {
		sig.ExitCode = 1
	}
	os.Exit(sig.ExitCode)
}

func newApp(cfg *config, out io.Writer) *fx.App {
	return fx.New(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newObserver,
			newPool,
			func() io.Writer { return out },
			newChecker,
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(runChecker),
	)
}

func newLogger(cfg *config) xlog.XLogger {
	lvl := xlog.LogLevelInfo
	if cfg.verbose {
		lvl = xlog.LogLevelDebug
	}
	return xlog.NewXLogger(
		xlog.WithXLoggerStdErrWriter(),
		xlog.WithXLoggerLevel(lvl),
	)
}

// newObserver installs the configured exporter, the observer is nil when
// metrics are disabled.
func newObserver(lc fx.Lifecycle, cfg *config, logger xlog.XLogger) (tree.Observer, error) {
	var (
		shutdown observability.ShutdownCallback
		err      error
	)
	switch cfg.metrics {
	case metricsConsole:
		shutdown, err = observability.NewConsoleMetricsExporter(cfg.metricsInterval, cfg.metricsInterval)
	case metricsPrometheus:
		shutdown, err = observability.NewPrometheusMetricsExporter()
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	statsCtx, statsCancel := context.WithCancel(context.Background())
	observability.InitAppStats(statsCtx, "xtree", nil)
	var srv *http.Server
	if cfg.metrics == metricsPrometheus {
		srv = &http.Server{
			Addr:              cfg.metricsAddr,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if srv == nil {
				return nil
			}
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return infra.WrapErrorStackWithMessage(err, "[xtree] metrics listener")
			}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.ErrorStack(infra.WrapErrorStack(err), "[xtree] metrics server")
				}
			}()
			logger.Info("[xtree] serving metrics", zap.String("addr", ln.Addr().String()))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			statsCancel()
			var merr error
			if srv != nil {
				merr = multierr.Append(merr, srv.Shutdown(ctx))
			}
			return multierr.Append(merr, shutdown(ctx))
		},
	})
	return observability.NewTreeMetrics("xtree"), nil
}

func newPool(lc fx.Lifecycle, cfg *config, logger xlog.XLogger) (*ants.Pool, error) {
	pool, err := ants.NewPool(
		cfg.workers,
		ants.WithPreAlloc(true),
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
	)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[xtree] worker pool")
	}
	lc.Append(fx.StopHook(pool.Release))
	return pool, nil
}

type checker struct {
	cfg      *config
	logger   xlog.XLogger
	observer tree.Observer
	pool     *ants.Pool
	out      io.Writer
}

func newChecker(
	cfg *config,
	logger xlog.XLogger,
	observer tree.Observer,
	pool *ants.Pool,
	out io.Writer,
) *checker {
	return &checker{
		cfg:      cfg,
		logger:   logger,
		observer: observer,
		pool:     pool,
		out:      out,
	}
}

// run submits one workload per strategy and prints the reports in the
// strategy order. Every strategy runs even if another one fails.
func (c *checker) run() error {
	var (
		elements []element
		err      error
	)
	if c.cfg.dump != "" {
		if elements, err = loadElements(c.cfg.dumpDir, c.cfg.dump, c.logger); err != nil {
			return err
		}
	} else {
		elements = randomElements(c.cfg.keys, c.cfg.seed)
	}
	c.logger.Info("[xtree] elements ready",
		zap.Int("elements", len(elements)),
		zap.Uint64("seed", c.cfg.seed),
	)

	reports := make([]*report, len(c.cfg.strategies))
	errs := make([]error, len(c.cfg.strategies))
	wg := sync.WaitGroup{}
	for i, strategy := range c.cfg.strategies {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = infra.NewErrorStackf("[xtree] %s workload panic: %v", strategy, r)
				}
			}()
			logger := c.logger.Named(strategy.String())
			reports[i], errs[i] = runWorkload(c.cfg, strategy, elements, logger, c.observer)
		}
		if err = c.pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = infra.WrapErrorStackWithMessage(err, "[xtree] submit "+strategy.String())
		}
	}
	wg.Wait()

	var merr error
	for i, rep := range reports {
		if errs[i] != nil {
			c.logger.ErrorStack(errs[i], "[xtree] workload failed", zap.Stringer("strategy", c.cfg.strategies[i]))
			merr = multierr.Append(merr, errs[i])
			continue
		}
		if err = rep.writeTo(c.out, c.cfg.order); err != nil {
			merr = multierr.Append(merr, err)
		}
	}
	return merr
}

func runChecker(lc fx.Lifecycle, sd fx.Shutdowner, c *checker) {
	lc.Append(fx.StartHook(func() {
		go func() {
			code := 0
			if err := c.run(); err != nil {
				code = 1
			}
			_ = c.logger.Sync()
			_ = sd.Shutdown(fx.ExitCode(code))
		}()
	}))
}
