package pos

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	platformpostgres "github.com/Apurer/boba-pos/internal/platform/postgres"
)

// DefaultEnvFile is read from the working directory when no file is named.
const DefaultEnvFile = ".env"

// Config carries file- and environment-driven settings for a POS process.
type Config struct {
	DatabaseURL      string
	DatabaseUser     string
	DatabasePassword string
	ConnectTimeout   time.Duration
	AutoMigrate      bool

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	AMQPURL     string
	LogLevel    string
	Environment string

	// FileErr is set when the key=value file exists but could not be parsed.
	// Its contents are then ignored.
	FileErr error
	// TimeoutErr is set when DB_CONNECT_TIMEOUT is not a positive duration.
	// ConnectTimeout then keeps its default.
	TimeoutErr error
}

// LoadConfig reads envFile (key=value lines) and overlays the process environment.
// It never fails: a missing file yields defaults, and unusable values are recorded
// on the returned Config for the bootstrapper to report.
func LoadConfig(envFile string) Config {
	values, fileErr := readEnvFile(envFile)
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(values[key])
	}

	cfg := Config{
		DatabaseURL:       lookup("DB_URL"),
		DatabaseUser:      lookup("DB_USER"),
		DatabasePassword:  lookup("DB_PASS"),
		ConnectTimeout:    platformpostgres.DefaultConnectTimeout,
		AutoMigrate:       isTruthy(lookup("DB_AUTO_MIGRATE")),
		TemporalAddress:   lookup("TEMPORAL_ADDRESS"),
		TemporalNamespace: valueOrDefault(lookup("TEMPORAL_NAMESPACE"), client.DefaultNamespace),
		TemporalDisabled:  isTruthy(lookup("TEMPORAL_DISABLED")),
		AMQPURL:           lookup("AMQP_URL"),
		LogLevel:          valueOrDefault(lookup("LOG_LEVEL"), "info"),
		Environment:       valueOrDefault(lookup("ENVIRONMENT"), "local"),
		FileErr:           fileErr,
	}
	if raw := lookup("DB_CONNECT_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			cfg.TimeoutErr = fmt.Errorf("DB_CONNECT_TIMEOUT must be a positive duration, got %q", raw)
		} else {
			cfg.ConnectTimeout = timeout
		}
	}
	return cfg
}

// HasDatabase reports whether all three live-store parameters are present.
func (c Config) HasDatabase() bool {
	return c.DatabaseURL != "" && c.DatabaseUser != "" && c.DatabasePassword != ""
}

// TemporalEnabled reports whether order submission should go through Temporal.
func (c Config) TemporalEnabled() bool {
	return c.TemporalAddress != "" && !c.TemporalDisabled
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		path = DefaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err == nil {
		return values, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	return map[string]string{}, fmt.Errorf("read %s: %w", path, err)
}

func valueOrDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
