package main

import (
	"flag"
	"log"
	"os"

	"StockSentry/internal/di"
	"StockSentry/pkg/config"

	"github.com/joho/godotenv"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// Optional .env for local development; credentials come from the
	// environment either way.
	_ = godotenv.Load()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s dedup=%s portfolios=%s", cfg.Environment, cfg.Dedup.Backend, cfg.Portfolio.Path)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	log.Printf("scheduler: interval=%s window=%s-%s report_hour=%d",
		cfg.Scheduler.Interval, cfg.Scheduler.MarketOpen, cfg.Scheduler.MarketClose, cfg.Scheduler.ReportHour)

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
