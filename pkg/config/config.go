// Package config reads service settings from the environment. A .env file in
// the working directory is loaded first when present; real environment
// variables win over it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"textbook_market/pkg/database"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = database.DriverSQLite
	StorePostgres = database.DriverPostgres
)

type Config struct {
	Env  string
	Port string

	StoreDriver string
	SQLitePath  string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBRetries   int
	DBRetryWait time.Duration

	SeedSampleData bool

	LogLevel  string
	LogFormat string

	ChatRatePerSecond float64
	ChatBurst         int

	// With RedisAddr set the chat limit is a shared fixed window of
	// ChatWindowLimit requests per ChatWindow instead of a local bucket.
	RedisAddr       string
	RedisPassword   string
	ChatWindow      time.Duration
	ChatWindowLimit int

	BreakerMaxFailures int
	BreakerOpenTimeout time.Duration

	ShutdownTimeout time.Duration
}

// Load reads .env (if any) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),

		StoreDriver: getEnv("STORE_DRIVER", StoreMemory),
		SQLitePath:  getEnv("SQLITE_PATH", ":memory:"),
		DBHost:      getEnv("DB_HOST", "postgres"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "program"),
		DBPassword:  getEnv("DB_PASSWORD", "test"),
		DBName:      getEnv("DB_NAME", "textbooks"),
		DBRetries:   getEnvInt("DB_MAX_RETRIES", 10),
		DBRetryWait: getEnvDuration("DB_RETRY_DELAY", 5*time.Second),

		SeedSampleData: getEnvBool("SEED_SAMPLE_DATA", true),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),

		ChatRatePerSecond: getEnvFloat("CHAT_RATE_PER_SECOND", 1),
		ChatBurst:         getEnvInt("CHAT_BURST", 5),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		ChatWindow:      getEnvDuration("CHAT_WINDOW", time.Minute),
		ChatWindowLimit: getEnvInt("CHAT_WINDOW_LIMIT", 30),

		BreakerMaxFailures: getEnvInt("BREAKER_MAX_FAILURES", 5),
		BreakerOpenTimeout: getEnvDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	switch cfg.StoreDriver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q (want %s, %s or %s)",
			cfg.StoreDriver, StoreMemory, StoreSQLite, StorePostgres)
	}
	return cfg, nil
}

// Database returns connection settings for the SQL backends. It is only
// meaningful when StoreDriver is not StoreMemory.
func (c Config) Database() database.Config {
	dsn := c.SQLitePath
	if c.StoreDriver == StorePostgres {
		dsn = database.PostgresDSN(c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	}
	return database.Config{
		Driver:     c.StoreDriver,
		DSN:        dsn,
		MaxRetries: c.DBRetries,
		RetryDelay: c.DBRetryWait,
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
