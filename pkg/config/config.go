// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Database. A postgres:// URL selects the PostgreSQL repository; a
	// plain path selects SQLite.
	DatabaseURL string

	// Redis. Empty disables the shared result cache (an in-process cache
	// is used instead).
	RedisURL string

	// RabbitMQ. Empty disables event publishing.
	RabbitMQURL string

	// Cache
	CacheBreakerEnabled bool
}

// Load loads configuration from environment variables, honoring a local
// .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DatabaseURL:         getEnv("DATABASE_URL", "callsheet.db"),
		RedisURL:            getEnv("REDIS_URL", ""),
		RabbitMQURL:         getEnv("RABBITMQ_URL", ""),
		CacheBreakerEnabled: getBoolEnv("CACHE_BREAKER_ENABLED", true),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
