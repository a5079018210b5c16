package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/api"
	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/db"
	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/logging"
	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/scheduler"
	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/scrape"
)

func main() {
	_ = godotenv.Load()

	logger, err := logging.New(os.Getenv("APP_ENV") != "production")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	reg, err := scrape.LoadRegistry()
	if err != nil {
		logger.Fatal("failed to load source registry", zap.Error(err))
	}
	scrapers, err := scrape.BuildScrapers(reg, logger)
	if err != nil {
		logger.Fatal("failed to build scrapers", zap.Error(err))
	}

	store := db.NewStore(pool, logger)
	engine := scrape.NewEngine(scrapers, scrape.Filters{}, logger)
	pipeline := &scrape.Pipeline{Engine: engine, Store: store, Log: logger}

	scrapeHour := 6
	if raw := os.Getenv("SCRAPE_HOUR_UTC"); raw != "" {
		if h, err := strconv.Atoi(raw); err == nil {
			scrapeHour = h
		}
	}
	sched := scheduler.New(scrapeHour, db.NewAdvisoryLock(pool), func(ctx context.Context) error {
		_, err := pipeline.Run(ctx, true)
		return err
	}, logger)
	sched.Start(ctx)

	srv := api.NewServer(store, pipeline, logger)
	logger.Info("server starting", zap.String("port", port), zap.Int("scrape_hour_utc", scrapeHour))
	if err := srv.Start(port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
