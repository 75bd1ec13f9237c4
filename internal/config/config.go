// Package config provides configuration loading and management.
package config

import (
	"os"
	"time"
)

// Config holds the application configuration.
type Config struct {
	// Database configuration
	DatabaseURL string // PostgreSQL connection string (if set, uses PostgreSQL)
	SQLitePath  string // SQLite database path (default: ./eventstore.db)

	// Archive configuration
	ArchiveDir      string        // Directory for cold archive NDJSON segments (default: ./archive)
	ArchiveInterval time.Duration // Interval between archive coordinator runs (default: 5m)

	// Store configuration
	StoreName string // Logical store name, used as the table-name prefix (default: eventstore)

	// Logging
	LogLevel string // Logging level: debug, info, warn, error (default: info)
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      getEnvOrDefault("SQLITE_PATH", "./eventstore.db"),
		ArchiveDir:      getEnvOrDefault("ARCHIVE_DIR", "./archive"),
		ArchiveInterval: getEnvDurationOrDefault("ARCHIVE_INTERVAL", 5*time.Minute),
		StoreName:       getEnvOrDefault("STORE_NAME", "eventstore"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

// UsePostgreSQL returns true if PostgreSQL should be used.
func (c *Config) UsePostgreSQL() bool {
	return c.DatabaseURL != ""
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDurationOrDefault returns the environment variable parsed as a
// time.Duration, or a default.
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
