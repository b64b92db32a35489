package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textbook_market/pkg/database"
)

var envKeys = []string{
	"APP_ENV", "PORT", "STORE_DRIVER", "SQLITE_PATH",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_MAX_RETRIES", "DB_RETRY_DELAY",
	"SEED_SAMPLE_DATA", "LOG_LEVEL", "LOG_FORMAT",
	"CHAT_RATE_PER_SECOND", "CHAT_BURST", "SHUTDOWN_TIMEOUT",
	"BREAKER_MAX_FAILURES", "BREAKER_OPEN_TIMEOUT",
	"REDIS_ADDR", "REDIS_PASSWORD", "CHAT_WINDOW", "CHAT_WINDOW_LIMIT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.True(t, cfg.SeedSampleData)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1.0, cfg.ChatRatePerSecond)
	assert.Equal(t, 5, cfg.ChatBurst)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10, cfg.DBRetries)
	assert.Equal(t, 5*time.Second, cfg.DBRetryWait)
	assert.Equal(t, 5, cfg.BreakerMaxFailures)
	assert.Equal(t, 30*time.Second, cfg.BreakerOpenTimeout)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, time.Minute, cfg.ChatWindow)
	assert.Equal(t, 30, cfg.ChatWindowLimit)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "market.db")
	t.Setenv("SEED_SAMPLE_DATA", "false")
	t.Setenv("CHAT_RATE_PER_SECOND", "0.5")
	t.Setenv("CHAT_BURST", "2")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DB_MAX_RETRIES", "not-a-number")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.SeedSampleData)
	assert.Equal(t, 0.5, cfg.ChatRatePerSecond)
	assert.Equal(t, 2, cfg.ChatBurst)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10, cfg.DBRetries, "unparsable values fall back to the default")

	db := cfg.Database()
	assert.Equal(t, database.DriverSQLite, db.Driver)
	assert.Equal(t, "market.db", db.DSN)
}

func TestFromEnvPostgresDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "market")

	cfg, err := FromEnv()
	require.NoError(t, err)
	db := cfg.Database()
	assert.Equal(t, database.DriverPostgres, db.Driver)
	assert.Equal(t, "host=db.internal user=program password=test dbname=market port=5432 sslmode=disable TimeZone=UTC", db.DSN)
}

func TestFromEnvRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "mongodb")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "mongodb")
}
