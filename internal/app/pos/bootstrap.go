package pos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/boba-pos/internal/domains/pos/adapters/memory"
	pospostgres "github.com/Apurer/boba-pos/internal/domains/pos/adapters/persistence/postgres"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
	"github.com/Apurer/boba-pos/internal/platform/migrations"
	platformpostgres "github.com/Apurer/boba-pos/internal/platform/postgres"
)

var errMissingDatabaseConfig = errors.New("DB_URL, DB_USER and DB_PASS must all be set")

// OpenStore makes exactly one attempt to reach the live database. On any failure it
// returns the seeded in-memory store and usingFallback=true. The choice is final for
// the life of the process.
func OpenStore(ctx context.Context, cfg Config, logger *slog.Logger) (store ports.Store, usingFallback bool) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FileErr != nil {
		logger.Warn("ignoring unreadable configuration file", slog.String("error", cfg.FileErr.Error()))
	}
	if cfg.TimeoutErr != nil {
		logger.Warn("ignoring connect timeout", slog.String("error", cfg.TimeoutErr.Error()),
			slog.Duration("db.connect_timeout", cfg.ConnectTimeout))
	}
	db, err := connect(ctx, cfg, logger)
	if err != nil {
		logger.Warn("live database unavailable, using mock data", slog.String("error", err.Error()))
		return memory.NewSeededStore(time.Now()), true
	}
	logger.Info("connected to live database", slog.Bool("db.auto_migrate", cfg.AutoMigrate))
	return pospostgres.NewStore(db), false
}

func connect(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	if !cfg.HasDatabase() {
		return nil, errMissingDatabaseConfig
	}
	dsn, err := platformpostgres.BuildDSN(cfg.DatabaseURL, cfg.DatabaseUser, cfg.DatabasePassword)
	if err != nil {
		return nil, err
	}
	db, err := platformpostgres.Connect(ctx, dsn, cfg.ConnectTimeout, logger)
	if err != nil {
		return nil, err
	}
	if !cfg.AutoMigrate {
		return db, nil
	}
	if err := prepareSchema(ctx, db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return db, nil
}

func prepareSchema(ctx context.Context, db *gorm.DB) error {
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if err := migrations.Seed(ctx, db, time.Now()); err != nil {
		return fmt.Errorf("seed sample data: %w", err)
	}
	return nil
}
