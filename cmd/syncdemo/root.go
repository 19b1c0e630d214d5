// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/syncdemo"
	"code.hybscloud.com/syncdemo/internal/config"
	"code.hybscloud.com/syncdemo/internal/harness"
	"code.hybscloud.com/syncdemo/internal/logging"
)

// globals are the persistent flags shared by every command.
type globals struct {
	configPath  string
	logLevel    string
	metricsAddr string
}

// overrides are per-command flags applied over the loaded config.
type overrides struct {
	workers  int
	ops      int
	trials   int
	interval time.Duration
	items    int
	chunk    int
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "syncdemo",
		Short:         "Demonstrate shared-state strategies under concurrent mutation",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.run(cmd, nil, func(ctx context.Context, h *harness.Harness) error {
				_, err := h.All(ctx)
				return err
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "YAML config file")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&g.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	root.AddCommand(
		newCounterCmd(g, "race", "Increment an unsynchronized counter and count lost updates",
			func(c *config.Config) *config.Workload { return &c.Race },
			func(_ context.Context, h *harness.Harness) error { _, err := h.Race(); return err }),
		newCounterCmd(g, "atomic", "Increment an atomic counter",
			func(c *config.Config) *config.Workload { return &c.Atomic },
			func(_ context.Context, h *harness.Harness) error { _, err := h.Atomic(); return err }),
		newCounterCmd(g, "mutex", "Append to a mutex-protected collection",
			func(c *config.Config) *config.Workload { return &c.Mutex },
			func(_ context.Context, h *harness.Harness) error { _, err := h.Mutex(); return err }),
		newRWLockCmd(g),
		newSumCmd(g),
	)
	return root
}

func newCounterCmd(g *globals, name, short string, section func(*config.Config) *config.Workload, demo func(context.Context, *harness.Harness) error) *cobra.Command {
	o := &overrides{}
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
	}
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return g.run(cmd, func(cfg *config.Config) {
			w := section(cfg)
			fs := cmd.Flags()
			if fs.Changed("workers") {
				w.Workers = o.workers
			}
			if fs.Changed("ops") {
				w.Ops = o.ops
			}
			if fs.Changed("trials") {
				w.Trials = o.trials
			}
		}, demo)
	}
	workloadFlags(cmd.Flags(), o, name == "race")
	return cmd
}

func workloadFlags(fs *pflag.FlagSet, o *overrides, trials bool) {
	fs.IntVar(&o.workers, "workers", 0, "number of workers (default from config)")
	fs.IntVar(&o.ops, "ops", 0, "operations per worker (default from config)")
	if trials {
		fs.IntVar(&o.trials, "trials", 0, "number of repetitions (default from config)")
	}
}

func newRWLockCmd(g *globals) *cobra.Command {
	o := &overrides{}
	cmd := &cobra.Command{
		Use:   "rwlock",
		Short: "Add names to a lazily seeded registry while a reader polls it",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return g.run(cmd, func(cfg *config.Config) {
			if cmd.Flags().Changed("interval") {
				cfg.Registry.Interval = o.interval
			}
		}, func(ctx context.Context, h *harness.Harness) error {
			_, err := h.RWLock(ctx)
			return err
		})
	}
	cmd.Flags().DurationVar(&o.interval, "interval", 0, "background reader interval (default from config)")
	return cmd
}

func newSumCmd(g *globals) *cobra.Command {
	o := &overrides{}
	cmd := &cobra.Command{
		Use:   "sum",
		Short: "Sum 0..items-1 with one worker per chunk",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return g.run(cmd, func(cfg *config.Config) {
			fs := cmd.Flags()
			if fs.Changed("items") {
				cfg.Sum.Items = o.items
			}
			if fs.Changed("chunk") {
				cfg.Sum.Chunk = o.chunk
			}
		}, func(_ context.Context, h *harness.Harness) error {
			_, err := h.Sum()
			return err
		})
	}
	cmd.Flags().IntVar(&o.items, "items", 0, "number of items (default from config)")
	cmd.Flags().IntVar(&o.chunk, "chunk", 0, "items per worker (default from config)")
	return cmd
}

// run loads the config, applies overrides, wires logging and metrics, and
// runs demo against a harness bound to the command's streams.
func (g *globals) run(cmd *cobra.Command, override func(*config.Config), demo func(context.Context, *harness.Harness) error) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.metricsAddr != "" {
		cfg.MetricsAddr = g.metricsAddr
	}
	if override != nil {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.NewWriter(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts := []harness.Option{harness.WithLogger(log)}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		opts = append(opts, harness.WithMetrics(syncdemo.NewMetrics(reg)))

		stop, err := serveMetrics(cfg.MetricsAddr, reg, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	h := harness.New(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), opts...)
	if err := demo(ctx, h); err != nil {
		log.Error("demonstration failed", zap.Error(err))
		return err
	}
	return nil
}

// serveMetrics exposes reg on addr until the returned stop function is
// called. stop waits for the server goroutine to exit.
func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) (stop func(), err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	log.Info("serving metrics", zap.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn("metrics shutdown", zap.Error(err))
		}
		if err := g.Wait(); err != nil {
			log.Warn("metrics server", zap.Error(err))
		}
	}, nil
}
