package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/pokehouse/internal/catalog"
	"github.com/mmynk/pokehouse/internal/config"
	"github.com/mmynk/pokehouse/internal/metrics"
	"github.com/mmynk/pokehouse/internal/order"
	"github.com/mmynk/pokehouse/internal/scheduler"
	"github.com/mmynk/pokehouse/internal/storage/sqlite"
	"github.com/mmynk/pokehouse/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "pokehouse:", err)
		os.Exit(2)
	}

	logging.SetupWithOptions(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	menu := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return err
		}
		menu = loaded
	}
	slog.Info("Catalog loaded", "sizes", len(menu.Sizes()), "path", cfg.CatalogPath)

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	// Pick up today's sales so a restart does not hand out the quota twice.
	ledger := order.NewLedger(menu)
	today := order.BusinessDay(time.Now(), cfg.Location)
	counts, err := store.DailyCounts(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to load daily counts: %w", err)
	}
	if err := ledger.Restore(counts); err != nil {
		return fmt.Errorf("failed to restore ledger for %s: %w", today, err)
	}
	slog.Info("Ledger restored", "day", today, "counts", counts)

	m := metrics.New()
	svcs := newServices(menu, ledger, store, m, cfg.Location)

	sched := scheduler.New(cfg.Location)
	if err := sched.Add("daily-reset", cfg.ResetSchedule, func() { svcs.inventory.Reset() }); err != nil {
		return err
	}
	sched.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		sched.Stop(stopCtx)
	}()

	handler := newRouter(svcs, m, cfg)
	if limiter := svcs.limiter; limiter != nil {
		limiter.StartCleanup(ctx, time.Minute)
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		// Wrap with h2c for HTTP/2 without TLS (required for Connect)
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr, "timezone", cfg.Location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
