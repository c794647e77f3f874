package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inspectorhq/webhook-inspector/internal/api"
	"github.com/inspectorhq/webhook-inspector/internal/config"
	"github.com/inspectorhq/webhook-inspector/internal/ingest"
	"github.com/inspectorhq/webhook-inspector/internal/store"
	"github.com/inspectorhq/webhook-inspector/internal/web"
	ws "github.com/inspectorhq/webhook-inspector/internal/websocket"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	recordStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer recordStore.Close()

	service := ingest.NewService(recordStore)

	hub := ws.NewHub(logger)
	go hub.Run()

	views, err := web.NewHandler(service, logger)
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(service, hub, views, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Port, "store", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// newStore builds the configured storage backend.
func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pgStore.RunMigrations(ctx); err != nil {
			pgStore.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to PostgreSQL")
		return pgStore, nil

	case config.BackendRedis:
		redisStore, err := store.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to Redis")
		return redisStore, nil

	case config.BackendMemory:
		logger.Warn("using in-memory store; records are lost on restart")
		return store.NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
