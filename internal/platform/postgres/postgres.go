package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DefaultConnectTimeout bounds the single connection attempt when none is configured.
const DefaultConnectTimeout = 5 * time.Second

// ErrEmptyDSN is returned when there is nothing to connect to.
var ErrEmptyDSN = errors.New("postgres DSN is empty")

// Connect opens a PostgreSQL connection via GORM and verifies it with one ping
// bounded by timeout. There are no retries.
func Connect(ctx context.Context, dsn string, timeout time.Duration, logger *slog.Logger) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrEmptyDSN
	}
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	cfg := &gorm.Config{DisableAutomaticPing: true}
	if logger != nil {
		cfg.Logger = NewGormLogger(logger)
	}
	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// BuildDSN turns the configured address and credentials into a driver DSN.
// The address may be a JDBC-style URL, a postgres:// URL or a key=value DSN.
func BuildDSN(address, user, password string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", ErrEmptyDSN
	}
	address = strings.TrimPrefix(address, "jdbc:")

	dsn := address
	if strings.HasPrefix(address, "postgres://") || strings.HasPrefix(address, "postgresql://") {
		parsed, err := pq.ParseURL(address)
		if err != nil {
			return "", fmt.Errorf("parse DB_URL: %w", err)
		}
		dsn = parsed
	}

	parts := []string{dsn}
	if user != "" {
		parts = append(parts, "user="+quote(user))
	}
	if password != "" {
		parts = append(parts, "password="+quote(password))
	}
	return strings.Join(parts, " "), nil
}

func quote(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return "'" + escaped + "'"
}
