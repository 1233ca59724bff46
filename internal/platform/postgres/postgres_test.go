package postgres

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestBuildDSN(t *testing.T) {
	t.Run("jdbc url", func(t *testing.T) {
		dsn, err := BuildDSN("jdbc:postgresql://db.local:5432/boba", "pos", "secret")
		require.NoError(t, err)
		assert.Contains(t, dsn, "host='db.local'")
		assert.Contains(t, dsn, "port='5432'")
		assert.Contains(t, dsn, "dbname='boba'")
		assert.Contains(t, dsn, "user='pos'")
		assert.Contains(t, dsn, "password='secret'")
	})

	t.Run("postgres url keeps query parameters", func(t *testing.T) {
		dsn, err := BuildDSN("postgres://db.local/boba?sslmode=disable", "pos", "secret")
		require.NoError(t, err)
		assert.Contains(t, dsn, "sslmode='disable'")
		assert.NotContains(t, dsn, "postgres://")
	})

	t.Run("key value dsn passes through", func(t *testing.T) {
		dsn, err := BuildDSN("host=localhost dbname=boba", "pos", "")
		require.NoError(t, err)
		assert.Equal(t, "host=localhost dbname=boba user='pos'", dsn)
	})

	t.Run("credentials are quoted", func(t *testing.T) {
		dsn, err := BuildDSN("host=localhost", "o'neil", `p\w d`)
		require.NoError(t, err)
		assert.Equal(t, `host=localhost user='o\'neil' password='p\\w d'`, dsn)
	})

	t.Run("empty address", func(t *testing.T) {
		_, err := BuildDSN("  ", "pos", "secret")
		require.ErrorIs(t, err, ErrEmptyDSN)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := BuildDSN("postgres://%zz", "pos", "secret")
		require.Error(t, err)
	})
}

func TestConnect_EmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), "", time.Second, nil)
	require.ErrorIs(t, err, ErrEmptyDSN)
}

func TestConnect_UnreachableHostFailsWithinTimeout(t *testing.T) {
	start := time.Now()
	_, err := Connect(context.Background(), "host=127.0.0.1 port=1 dbname=boba sslmode=disable", 2*time.Second, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewGormLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	sql := func() (string, int64) { return "SELECT 1", 1 }

	logger.Trace(context.Background(), time.Now(), sql, nil)
	assert.Empty(t, buf.String(), "fast statements are not logged at the default level")

	logger.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Contains(t, buf.String(), "sql statement failed")

	buf.Reset()
	logger.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "slow sql statement")

	buf.Reset()
	logger.LogMode(gormlogger.Info).Trace(context.Background(), time.Now(), sql, nil)
	assert.Contains(t, buf.String(), `"db.statement":"SELECT 1"`)

	buf.Reset()
	logger.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Empty(t, buf.String())
}
