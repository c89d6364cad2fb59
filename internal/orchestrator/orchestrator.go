// Package orchestrator runs the API server together with its run history
// and metrics endpoint, and shuts them down cleanly on a signal.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/randomizedcoder/go-cpusched/internal/config"
	"github.com/randomizedcoder/go-cpusched/internal/metrics"
	"github.com/randomizedcoder/go-cpusched/internal/server"
	"github.com/randomizedcoder/go-cpusched/internal/store"
)

// ShutdownTimeout bounds graceful shutdown of both HTTP servers.
const ShutdownTimeout = 10 * time.Second

// Orchestrator coordinates the components of a running API server.
type Orchestrator struct {
	config *config.Config
	logger *slog.Logger
	out    io.Writer // exit summary

	store         *store.SQLiteStore // nil when history is disabled
	registry      *prometheus.Registry
	metrics       *metrics.Collector
	metricsServer *metrics.Server // nil when --metrics is empty
	api           *server.Server
	httpServer    *http.Server
	listener      net.Listener

	startTime time.Time
}

// New creates an Orchestrator. The history database, when configured, is
// opened and migrated here so that a bad path fails before anything listens.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string, out io.Writer) (*Orchestrator, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollectorWithRegistry(metrics.CollectorConfig{Version: version}, registry)

	orch := &Orchestrator{
		config:   cfg,
		logger:   logger,
		out:      out,
		registry: registry,
		metrics:  collector,
	}

	opts := []server.Option{
		server.WithCollector(collector),
		server.WithVersion(version),
	}
	if cfg.DBPath != "" {
		st, err := store.NewSQLiteStore(cfg.DBPath, logger)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, fmt.Errorf("migrate %s: %w", cfg.DBPath, err)
		}
		orch.store = st
		opts = append(opts, server.WithStore(st))
	}

	if cfg.MetricsAddr != "" {
		orch.metricsServer = metrics.NewServerWithGatherer(cfg.MetricsAddr, registry, logger)
	}

	orch.api = server.New(logger, opts...)
	orch.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           orch.api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return orch, nil
}

// Listen binds the API address. Run calls it when it has not been called.
func (o *Orchestrator) Listen() error {
	if o.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", o.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", o.config.ListenAddr, err)
	}
	o.listener = ln
	return nil
}

// Addr returns the bound API address, or the configured one before Listen.
func (o *Orchestrator) Addr() string {
	if o.listener != nil {
		return o.listener.Addr().String()
	}
	return o.config.ListenAddr
}

// Run serves the API until ctx is cancelled, a SIGINT/SIGTERM arrives or
// the listener fails, then shuts everything down and prints the exit summary.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.startTime = time.Now()

	if err := o.Listen(); err != nil {
		o.closeStore()
		return err
	}

	// Start metrics server
	if o.metricsServer != nil {
		if err := o.metricsServer.Start(); err != nil {
			o.closeStore()
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	// Setup signal handling
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	o.logger.Info("api_server_starting",
		"addr", o.Addr(),
		"metrics_addr", o.config.MetricsAddr,
		"history", o.store != nil,
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := o.httpServer.Serve(o.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case sig := <-sigCh:
		o.logger.Info("received_signal", "signal", sig.String())
	case <-ctx.Done():
		o.logger.Info("context_cancelled")
	case err := <-serveErr:
		o.logger.Error("api_server_error", "error", err)
		runErr = err
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	if err := o.httpServer.Shutdown(shutdownCtx); err != nil {
		o.logger.Warn("shutdown_incomplete", "error", err)
	}
	if o.metricsServer != nil {
		if err := o.metricsServer.Shutdown(shutdownCtx); err != nil {
			o.logger.Warn("metrics_server_shutdown_error", "error", err)
		}
	}
	o.closeStore()

	o.printExitSummary()
	return runErr
}

func (o *Orchestrator) closeStore() {
	if o.store == nil {
		return
	}
	if err := o.store.Close(); err != nil {
		o.logger.Warn("store_close_error", "error", err)
	}
}

// printExitSummary prints what the server did while it ran.
func (o *Orchestrator) printExitSummary() {
	summary := o.metrics.GenerateSummary()
	o.logger.Info("shutdown_summary",
		"uptime", summary.Uptime.Round(time.Second).String(),
		"simulations", summary.Simulations,
		"failures", summary.Failures,
		"comparisons", summary.Comparisons,
	)

	w := o.out
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "                        go-cpusched Exit Summary")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "Run Duration:           %s\n", formatDuration(time.Since(o.startTime)))
	fmt.Fprintf(w, "Simulations:            %d\n", summary.Simulations)
	fmt.Fprintf(w, "Rejected:               %d\n", summary.Failures)
	fmt.Fprintf(w, "Comparisons:            %d\n", summary.Comparisons)
	fmt.Fprintln(w)

	if len(summary.ByAlgorithm) > 0 {
		fmt.Fprintln(w, "By Algorithm:")
		names := make([]string, 0, len(summary.ByAlgorithm))
		for name := range summary.ByAlgorithm {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %-6s               %d\n", name, summary.ByAlgorithm[name])
		}
		fmt.Fprintln(w)
	}

	if o.config.MetricsAddr != "" {
		fmt.Fprintf(w, "Metrics endpoint was: http://%s/metrics\n", o.config.MetricsAddr)
	}
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════════")
}

// formatDuration formats a duration as HH:MM:SS.
func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Metrics returns the metrics collector for external access.
func (o *Orchestrator) Metrics() *metrics.Collector {
	return o.metrics
}

// Registry returns the registry served on the metrics endpoint.
func (o *Orchestrator) Registry() *prometheus.Registry {
	return o.registry
}
