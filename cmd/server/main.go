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

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/bootstrap"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/memory"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		return err
	}

	snapshots, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	opts := []ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithCurrentUser(cfg.CurrentUserID),
	}
	if cfg.SeedPath != "" {
		seed, err := bootstrap.LoadFile(cfg.SeedPath)
		if err != nil {
			return err
		}
		slog.Info("Seed file loaded", "path", cfg.SeedPath, "users", len(seed.Users), "expenses", len(seed.Expenses))
		opts = append(opts, ledger.WithBootstrap(seed))
	}

	m := metrics.New()
	opts = append(opts, ledger.WithObserver(m))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := ledger.New(ctx, snapshots, opts...)
	if warn := store.PersistenceWarning(); warn != nil {
		slog.Warn("Starting with bootstrap data", "warning", warn)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	handler := service.New(store, jwtManager).Router(m.Handler())

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr), "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStorage(cfg *config.Config) (storage.SnapshotStore, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		slog.Info("Storage initialized", "backend", cfg.StorageBackend)
		return memory.New(), nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		attrs := []any{"backend", cfg.StorageBackend, "database", cfg.DBPath}
		if savedAt, err := store.SavedAt(context.Background()); err == nil {
			attrs = append(attrs, "last_saved", savedAt.Format(time.RFC3339))
		}
		slog.Info("Storage initialized", attrs...)
		return store, nil
	}
}
