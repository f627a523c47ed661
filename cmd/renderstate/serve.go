package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/renderstate/internal/config"
	"github.com/vango-dev/renderstate/internal/devtools"
	"github.com/vango-dev/renderstate/pkg/metrics"
	"github.com/vango-dev/renderstate/pkg/renderstate"
	"github.com/vango-dev/renderstate/pkg/store"
)

func serveCmd() *cobra.Command {
	var (
		configPath   string
		snapshotPath string
		port         int
		host         string
		demo         bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the devtools inspector",
		Long: `Start the read-only devtools inspector over a store.

The store can be seeded from a snapshot file. With --demo, a shared adapter
keeps loading data in the background so the change stream has something
to show.

Routes:
  /healthz  /snapshot  /snapshot/{key}  /ws  /metrics

Examples:
  renderstate serve
  renderstate serve --config=renderstate.yaml --port=8080
  renderstate serve --snapshot=snapshot.json --demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			// Apply command-line overrides
			if port > 0 {
				cfg.Devtools.Port = port
			}
			if host != "" {
				cfg.Devtools.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runServe(cmd, cfg, snapshotPath, demo)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to renderstate.yaml")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Seed the store from a snapshot file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVar(&demo, "demo", false, "Drive a demo adapter in the background")

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config, snapshotPath string, demo bool) error {
	out := cmd.OutOrStdout()
	logger := cfg.NewLogger(cmd.ErrOrStderr())

	storeOpts := []store.Option{store.WithName("devtools"), store.WithLogger(logger)}
	devtoolsOpts := []devtools.Option{devtools.WithLogger(logger)}

	var m *metrics.Metrics
	if cfg.MetricsEnabled() {
		reg := prometheus.NewRegistry()
		m = metrics.New(
			metrics.WithRegistry(reg),
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithSubsystem(cfg.Metrics.Subsystem),
		)
		storeOpts = append(storeOpts, store.WithMetrics(m))
		devtoolsOpts = append(devtoolsOpts, devtools.WithGatherer(reg))
	}

	if snapshotPath != "" {
		snap, err := readSnapshot(snapshotPath)
		if err != nil {
			return err
		}
		storeOpts = append(storeOpts, store.WithInitialRecords(snap))
	}

	st := store.New(storeOpts...)
	srv := devtools.New(st, cfg.Devtools, devtoolsOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if demo {
		a := renderstate.New[string](
			renderstate.WithStore(st),
			renderstate.WithKey("demo"),
			renderstate.WithLogger(logger),
			renderstate.WithMetrics(m),
			renderstate.WithTracer(otel.Tracer(cfg.Tracing.TracerName)),
		)
		defer a.Close()
		go driveDemo(ctx, a, 2*time.Second, logger)
	}

	printBanner(out)
	success(out, "Inspecting %d records", st.Len())
	info(out, "Snapshot: %s/snapshot", cfg.URL())
	info(out, "Stream:   ws://%s/ws", cfg.Addr())
	if cfg.MetricsEnabled() {
		info(out, "Metrics:  %s/metrics", cfg.URL())
	}
	fmt.Fprintln(out)

	if err := srv.Serve(ctx, cfg.Addr()); err != nil {
		return err
	}
	fmt.Fprintln(out, "\n  Shutting down...")
	return nil
}

// driveDemo reloads a every interval until ctx is done. Every fifth run fails.
func driveDemo(ctx context.Context, a *renderstate.Adapter[string], interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		run := n
		_, err := a.HandleData(ctx, func(ctx context.Context, _ *string, _ error) (string, error) {
			if run%5 == 0 {
				return "", fmt.Errorf("demo run %d failed", run)
			}
			return fmt.Sprintf("tick %d at %s", run, time.Now().Format(time.TimeOnly)), nil
		})
		if err != nil {
			logger.Info("demo producer failed", slog.String("error", err.Error()))
		}
		if run%7 == 0 {
			a.Reset()
		}
	}
}
