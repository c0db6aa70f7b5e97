package config

import (
	"os"
	"strconv"
	"time"

	"marquee/internal/database"
	"marquee/internal/idempotency"
	"marquee/internal/inventory"
	"marquee/internal/messaging"
)

type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	// Path to a catalog JSON file; empty means the built-in seed set.
	CatalogPath string

	IdempotencyTTL time.Duration

	Inventory inventory.Config
	Database  database.Config
	Redis     idempotency.Config
	NATS      messaging.Config
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8081"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		CatalogPath: getEnv("CATALOG_PATH", ""),

		IdempotencyTTL: time.Duration(getEnvInt("IDEMPOTENCY_TTL_HOURS", 24)) * time.Hour,

		Inventory: inventory.Config{
			ClaimTTL:      time.Duration(getEnvInt("CLAIM_TTL_SEC", 60)) * time.Second,
			SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_SEC", 15)) * time.Second,
		},

		Database: database.Config{
			Enabled:            getEnv("DB_ENABLED", "false") == "true",
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "marquee"),
			Password:           getEnv("DB_PASSWORD", "marquee"),
			DBName:             getEnv("DB_NAME", "marquee"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		Redis: idempotency.Config{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", ""),
			ClusterID: getEnv("NATS_CLUSTER_ID", "marquee"),
			ClientID:  getEnv("NATS_CLIENT_ID", "marquee-api"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
