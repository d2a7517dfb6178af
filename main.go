package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"marketplace-api/config"
	"marketplace-api/internal/app"
	"marketplace-api/internal/database"
	"marketplace-api/internal/server"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/storage/memory"
	"marketplace-api/internal/storage/postgres"
)

// @title           Marketplace API
// @version         1.0
// @description     Job lifecycle between stores and assemblers: applications, payment proof and mutual ratings.

// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		log.Fatalf("marketplace-api: %v", err)
	}
}

// run owns every resource so deferred cleanup happens before the process exits.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var store storage.Store
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		store = memory.New()
	default:
		pool, err := database.NewConnectionPool(ctx, cfg.DB, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		store = postgres.NewStore(pool, logger)
	}

	application := app.New(cfg, logger, store, redisClient)

	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	application.LoginLimiter.StartCleanup(10*time.Minute, stopCleanup)

	srv := server.NewServer(application)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("application gracefully stopped")
	return nil
}
