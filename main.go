package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goboard/api"
	"goboard/cache"
	"goboard/config"
	"goboard/db"
	"goboard/logger"
)

func main() {
	log := logger.GetLogger()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load config
	cfg := config.GetConfig()

	// Open the configured post store
	store := openStore(ctx, cfg, log)
	defer store.Close()

	// Seed the sample dataset when running an empty store
	if cfg.Storage.Seed {
		if err := db.Seed(ctx, store); err != nil {
			log.Fatal("Failed to seed posts", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Attach the Redis view counter when configured
	var views *cache.ViewCounter
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to initialize Redis", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer rc.Close()

		views = cache.NewViewCounter(rc, store, cfg.Redis.GetFlushInterval())
		go views.Run(ctx)
	}

	// Start the API server
	server := api.NewServer(cfg, store, views)
	if err := server.Start(ctx); err != nil {
		log.Fatal("Failed to start API server", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for interrupt signal
	sig := <-sigChan
	log.Info("Received shutdown signal", map[string]interface{}{
		"signal": sig.String(),
	})

	// Cancel context to initiate shutdown
	cancel()

	// Give some time for cleanup
	time.Sleep(time.Second)
	log.Info("Shutdown complete", nil)
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) db.PostStore {
	switch cfg.Storage.Driver {
	case "memory", "":
		log.Info("Using in-memory post store", nil)
		return db.NewMemoryStore()
	case "sqlite":
		store, err := db.NewSQLiteStore(cfg.SQLite.Path)
		if err != nil {
			log.Fatal("Failed to open SQLite store", map[string]interface{}{
				"error": err.Error(),
				"path":  cfg.SQLite.Path,
			})
		}
		log.Info("Using SQLite post store", map[string]interface{}{
			"path": cfg.SQLite.Path,
		})
		return store
	case "postgres":
		store, err := db.NewPostgresStore(ctx, &cfg.Postgres)
		if err != nil {
			log.Fatal("Failed to connect to Postgres", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return store
	default:
		log.Fatal("Unknown storage driver", map[string]interface{}{
			"driver": cfg.Storage.Driver,
		})
		return nil
	}
}
