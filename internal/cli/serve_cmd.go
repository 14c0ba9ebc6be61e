package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	hubapp "github.com/alexanderramin/programhub/internal/app"
	"github.com/spf13/cobra"
)

const serveShutdownTimeout = 5 * time.Second

// serveOptions controls the background refresh that keeps program gauges
// current while serving.
type serveOptions struct {
	refresh   time.Duration
	snapshots bool
}

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve Prometheus metrics and a health check",
		Long: `Serve /metrics and /healthz.

Every --refresh interval the status of each program is recomputed so the
program point gauges stay current. With --snapshots the current month's
burn snapshot of each program is saved on the same schedule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Metrics == nil {
				return fmt.Errorf("metrics are not configured")
			}
			if addr == "" {
				addr = app.MetricsAddr
			}
			if !cmd.Flags().Changed("refresh") && app.MetricsRefresh > 0 {
				opts.refresh = app.MetricsRefresh
			}
			if opts.refresh <= 0 {
				return fmt.Errorf("--refresh must be positive")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving /metrics and /healthz on %s\n", ln.Addr())
			return serveMetrics(ctx, app, ln, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from metrics.addr)")
	cmd.Flags().DurationVar(&opts.refresh, "refresh", time.Minute, "How often program metrics are recomputed (default from metrics.refresh)")
	cmd.Flags().BoolVar(&opts.snapshots, "snapshots", false, "Also save the current month's snapshot on every refresh")

	return cmd
}

// serveMetrics runs the metrics server on ln until ctx is cancelled. Program
// metrics are refreshed once at start and then every opts.refresh.
func serveMetrics(ctx context.Context, app *App, ln net.Listener, opts serveOptions) error {
	log := app.logger()

	refreshCtx, stopRefresh := context.WithCancel(ctx)
	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		runRefresher(refreshCtx, app, opts)
	}()
	defer func() {
		stopRefresh()
		<-refreshDone
	}()

	srv := &http.Server{
		Handler:           app.Metrics,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics server started", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("metrics server stopped")
	return nil
}

func runRefresher(ctx context.Context, app *App, opts serveOptions) {
	if app.Programs == nil || app.Status == nil || opts.refresh <= 0 {
		return
	}
	ticker := time.NewTicker(opts.refresh)
	defer ticker.Stop()
	for {
		refreshPrograms(ctx, app, opts.snapshots)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// refreshPrograms runs the status use case, and optionally the snapshot
// save, for every program. The registered observers turn the results into
// metrics. Failures are logged and do not stop the other programs.
func refreshPrograms(ctx context.Context, app *App, snapshots bool) {
	log := app.logger()
	programs, err := app.Programs.List(ctx)
	if err != nil {
		log.Error("listing programs for metrics", "error", err)
		return
	}
	for _, p := range programs {
		if ctx.Err() != nil {
			return
		}
		if _, err := app.Status.GetStatus(ctx, hubapp.StatusRequest{ProgramID: p.ID}); err != nil {
			log.Error("refreshing program status", "program", p.DisplayID(), "error", err)
		}
		if !snapshots {
			continue
		}
		if _, err := app.saveSnapshotUseCase().SaveCurrent(ctx, p.ID); err != nil {
			log.Error("saving current snapshot", "program", p.DisplayID(), "error", err)
		}
	}
	log.Debug("program metrics refreshed", "programs", len(programs))
}
