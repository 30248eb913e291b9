// Package cli wires the command-line surface around the session.
package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/termolab/pyrofit/internal/app"
	"github.com/termolab/pyrofit/internal/config"
	"github.com/termolab/pyrofit/internal/domain/fitting"
	"github.com/termolab/pyrofit/internal/domain/trace"
	"github.com/termolab/pyrofit/internal/repository"
	"github.com/termolab/pyrofit/pkg/logger"
	"github.com/termolab/pyrofit/pkg/metrics"
	"github.com/termolab/pyrofit/pkg/optimize"
)

// Metrics server timeout constants.
const (
	metricsReadTimeout       = 10 * time.Second
	metricsWriteTimeout      = 10 * time.Second
	metricsReadHeaderTimeout = 5 * time.Second
)

// Execute runs the root command with a signal-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// appContext carries the configured session into subcommands.
type appContext struct {
	cfg     *config.Config
	session *app.Session
}

func newRootCmd() *cobra.Command {
	ac := &appContext{}

	cmd := &cobra.Command{
		Use:           "pyrofit",
		Short:         "Estimate pyrolysis kinetics from micro-calorimetry HRR traces",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.Init()

			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}

			// Flags override file/env configuration.
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
			}
			if cmd.Flags().Changed("celsius") {
				cfg.Celsius, _ = cmd.Flags().GetBool("celsius")
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed, _ = cmd.Flags().GetInt64("seed")
			}

			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				logger.Get().Warn(cmd.Context(), "invalid log level; falling back to info",
					logger.String("log_level", cfg.LogLevel))
				_ = logger.SetLevelString("info")
			}

			ac.cfg = cfg
			ac.session = newSession(cfg)

			if cfg.MetricsAddr != "" {
				go serveMetrics(cmd.Context(), cfg.MetricsAddr)
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "log verbosity: debug, info, warn, error")
	cmd.PersistentFlags().String("metrics-addr", "", "expose prometheus metrics on this address")
	cmd.PersistentFlags().Bool("celsius", false, "input temperatures are Celsius; convert to Kelvin")
	cmd.PersistentFlags().Int64("seed", 42, "random seed for the parameter search")

	cmd.AddCommand(newFitCmd(ac))
	cmd.AddCommand(newPreprocessCmd(ac))
	cmd.AddCommand(newSynthCmd())

	return cmd
}

// newSession builds the session from configuration.
func newSession(cfg *config.Config) *app.Session {
	loaderOpts := []trace.Option{}
	if cfg.Celsius {
		loaderOpts = append(loaderOpts, trace.WithCelsius())
	}
	if cfg.SkipMalformedRows {
		loaderOpts = append(loaderOpts, trace.WithSkipMalformedRows())
	}

	minimizer := optimize.NewDifferentialEvolution(
		optimize.WithPopulationSize(cfg.PopulationSize),
		optimize.WithMaxGenerations(cfg.MaxGenerations),
		optimize.WithTolerance(cfg.Tolerance),
		optimize.WithCrossover(cfg.Crossover),
		optimize.WithWeightRange(cfg.WeightMin, cfg.WeightMax),
		optimize.WithSeed(cfg.Seed),
		optimize.WithWorkers(cfg.Workers),
	)

	return app.New(
		app.WithLoader(trace.NewLoader(loaderOpts...)),
		app.WithEngine(fitting.NewEngine(fitting.WithMinimizer(minimizer))),
		app.WithRunStore(repository.NewMemoryStore(repository.WithMaxEntries(cfg.HistorySize))),
		app.WithBounds(cfg.KineticBounds()),
	)
}

// serveMetrics exposes /metrics until the context ends.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       metricsReadTimeout,
		WriteTimeout:      metricsWriteTimeout,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	logger.Get().Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Get().Error(ctx, "metrics server failed", logger.Error(err))
	}
}
