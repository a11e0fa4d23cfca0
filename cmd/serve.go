package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"envrepo/internal/config"
	"envrepo/internal/datasource"
	"envrepo/internal/reconciler"
	"envrepo/internal/repository"
	"envrepo/pkg/logging"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const metricsShutdownTimeout = 5 * time.Second

// serveCmd runs the repository until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll the environment source and keep the cache reconciled",
	Long: `Starts the polling loop and keeps running until interrupted.

Every refresh interval the configured source is fetched and reconciled into
the environment cache. Each published state (Loading, Ready or Failed) is
logged. With a file source and source.watch enabled, changes to the file
trigger an immediate refresh.

When metrics.enabled is set, Prometheus metrics are served on
metrics.address at /metrics. Under systemd the service reports READY after
the first successful refresh and STOPPING on shutdown.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := reconciler.NewMetrics(registry)

	repo, err := newRepository(cfg, metrics, notifyReady)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := repo.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		logStates(gctx, repo)
		return nil
	})

	if cfg.Source.Watch {
		watcher := datasource.NewWatcher(cfg.Source.Path, cfg.Source.Debounce, func() {
			logging.Info("Serve", "Environment file changed, refreshing")
			_, _ = repo.Refresh(gctx)
		})
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.Metrics, registry)
		})
	}

	err = g.Wait()

	if _, notifyErr := daemon.SdNotify(false, daemon.SdNotifyStopping); notifyErr != nil {
		logging.Warn("Serve", "Failed to notify systemd: %v", notifyErr)
	}
	logging.Info("Serve", "Shut down")
	return err
}

// logStates logs every state the repository publishes until ctx is done.
func logStates(ctx context.Context, repo *repository.Repository) {
	sub := repo.Subscribe()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-sub.C():
			if !ok {
				return
			}
			st := snap.Value
			switch st.Kind {
			case repository.KindReady:
				logging.Info("Serve", "State v%d: Ready with %d environments %v", snap.Version, len(st.Environments), st.IDs())
			case repository.KindFailed:
				logging.Error("Serve", st.Err, "State v%d: Failed, keeping %d environments", snap.Version, len(st.Environments))
			default:
				logging.Info("Serve", "State v%d: %s", snap.Version, st.Kind)
			}
		}
	}
}

func serveMetrics(ctx context.Context, cfg config.MetricsConfig, registry *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	server := &http.Server{
		Addr:              cfg.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Serve", "Serving metrics on http://%s/metrics", cfg.Address)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// notifyReady tells systemd the service is up. Outside systemd it does nothing.
func notifyReady() {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logging.Warn("Serve", "Failed to notify systemd: %v", err)
		return
	}
	if sent {
		logging.Debug("Serve", "Notified systemd of readiness")
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
