package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/boba-pos/internal/app/pos"
	"github.com/Apurer/boba-pos/internal/platform/migrations"
	platformobservability "github.com/Apurer/boba-pos/internal/platform/observability"
	platformpostgres "github.com/Apurer/boba-pos/internal/platform/postgres"
)

func main() {
	envFile := flag.String("env-file", pos.DefaultEnvFile, "key=value file holding DB_URL, DB_USER and DB_PASS")
	seed := flag.Bool("seed", false, "load the sample rows into empty tables")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := pos.LoadConfig(*envFile)
	if cfg.FileErr != nil {
		log.Fatalf("invalid configuration: %v", cfg.FileErr)
	}
	if cfg.TimeoutErr != nil {
		log.Fatalf("invalid configuration: %v", cfg.TimeoutErr)
	}
	logger := platformobservability.NewLogger(os.Stdout, cfg.LogLevel)
	if !cfg.HasDatabase() {
		log.Fatal("DB_URL, DB_USER and DB_PASS must be set; nothing to migrate")
	}
	dsn, err := platformpostgres.BuildDSN(cfg.DatabaseURL, cfg.DatabaseUser, cfg.DatabasePassword)
	if err != nil {
		log.Fatalf("invalid DB_URL: %v", err)
	}
	db, err := platformpostgres.Connect(ctx, dsn, cfg.ConnectTimeout, logger)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}
	logger.Info("schema applied")
	if *seed {
		if err := migrations.Seed(ctx, db, time.Now()); err != nil {
			log.Fatalf("failed to seed sample data: %v", err)
		}
		logger.Info("sample data loaded", slog.Bool("seed", true))
	}
}
