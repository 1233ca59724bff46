package pos

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"DB_URL", "DB_USER", "DB_PASS", "DB_CONNECT_TIMEOUT", "DB_AUTO_MIGRATE",
	"TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
	"AMQP_URL", "LOG_LEVEL", "ENVIRONMENT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func writeEnvFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.env")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, cfg.FileErr)
	assert.False(t, cfg.HasDatabase())
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "default", cfg.TemporalNamespace)
	assert.False(t, cfg.TemporalEnabled())
}

func TestLoadConfig_FileValues(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "DB_URL=jdbc:postgresql://db.local:5432/boba\nDB_USER=cashier\nDB_PASS=s3cret\nDB_CONNECT_TIMEOUT=2s\nDB_AUTO_MIGRATE=true\n")

	cfg := LoadConfig(path)
	assert.True(t, cfg.HasDatabase())
	assert.Equal(t, "jdbc:postgresql://db.local:5432/boba", cfg.DatabaseURL)
	assert.Equal(t, "cashier", cfg.DatabaseUser)
	assert.Equal(t, "s3cret", cfg.DatabasePassword)
	assert.Equal(t, 2*time.Second, cfg.ConnectTimeout)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "DB_URL=postgres://file/boba\nDB_USER=file-user\nDB_PASS=file-pass\n")
	t.Setenv("DB_USER", "env-user")
	t.Setenv("TEMPORAL_ADDRESS", "temporal:7233")

	cfg := LoadConfig(path)
	assert.Equal(t, "postgres://file/boba", cfg.DatabaseURL)
	assert.Equal(t, "env-user", cfg.DatabaseUser)
	assert.True(t, cfg.TemporalEnabled())

	t.Setenv("TEMPORAL_DISABLED", "1")
	cfg = LoadConfig(path)
	assert.False(t, cfg.TemporalEnabled())
}

func TestLoadConfig_MissingCredentialMeansNoDatabase(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "DB_URL=postgres://db/boba\nDB_USER=cashier\n")

	cfg := LoadConfig(path)
	assert.False(t, cfg.HasDatabase())
}

func TestLoadConfig_UnparseableFileIsTreatedAsEmpty(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "DB_URL=postgres://db/boba\nBAD!KEY=1\n")

	cfg := LoadConfig(path)
	assert.Error(t, cfg.FileErr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.HasDatabase())
}

func TestLoadConfig_InvalidTimeoutKeepsDefault(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "DB_URL=postgres://db/boba\nDB_USER=cashier\nDB_PASS=s3cret\n")
	for _, raw := range []string{"soon", "0s", "-1s"} {
		t.Setenv("DB_CONNECT_TIMEOUT", raw)
		cfg := LoadConfig(path)
		assert.Error(t, cfg.TimeoutErr, raw)
		assert.Equal(t, 5*time.Second, cfg.ConnectTimeout, raw)
		assert.True(t, cfg.HasDatabase(), raw)
	}
}
