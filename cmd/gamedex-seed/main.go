package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gamedex/internal/catalog"
	"gamedex/internal/config"
	"gamedex/internal/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadSeedFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := catalog.NewStore(pool, logger)
	if cfg.ApplySchema {
		if err := store.ApplySchema(ctx); err != nil {
			logger.Error("apply schema failed", "err", err)
			os.Exit(1)
		}
	}

	f, err := os.Open(cfg.DatasetPath)
	if err != nil {
		logger.Error("open dataset failed", "path", cfg.DatasetPath, "err", err)
		os.Exit(1)
	}
	defer f.Close()

	stats, err := store.Seed(ctx, f)
	if err != nil {
		logger.Error("seed failed", "err", err)
		os.Exit(1)
	}
	logger.Info("seed completed", "inserted", stats.Inserted, "skipped", stats.Skipped)
}
