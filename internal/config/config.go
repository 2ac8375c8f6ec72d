// Package config provides configuration management for relreg.
// It loads settings from environment variables with the RELREG_ prefix and
// provides sensible defaults for all configuration options. Operator-defined
// relationship types can additionally be loaded from a YAML seed file.
package config

import (
	"os"
	"strconv"
)

// Config holds all configuration settings for the relreg server.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Security SecurityConfig
	Seeds    SeedsConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port      int     // Server port (default: 6380)
	Host      string  // Server host (default: 127.0.0.1)
	RateLimit float64 // Sustained requests per second (default: 10)
	RateBurst int     // Maximum burst size (default: 20)
}

// StorageConfig contains snapshot store configuration.
type StorageConfig struct {
	StorageEngine      string // Snapshot engine: sqlite, postgres, none (default: sqlite)
	DataPath           string // Path to data directory for sqlite (default: ./data)
	PostgresDSN        string // Postgres connection string when engine is postgres
	SnapshotOnShutdown bool   // Save a registry snapshot on shutdown (default: true)
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	SecurityMode string // Security mode: development, production (default: development)
	APIToken     string // API authentication token (required in production)
}

// SeedsConfig contains seed-file settings.
type SeedsConfig struct {
	SeedFile string // Path to a YAML file of extra relationship types (optional)
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the RELREG_ prefix.
func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:      getEnvInt("RELREG_PORT", 6380),
			Host:      getEnv("RELREG_HOST", "127.0.0.1"),
			RateLimit: getEnvFloat("RELREG_RATE_LIMIT", 10.0),
			RateBurst: getEnvInt("RELREG_RATE_BURST", 20),
		},
		Storage: StorageConfig{
			StorageEngine:      getEnv("RELREG_STORAGE_ENGINE", "sqlite"),
			DataPath:           getEnv("RELREG_DATA_PATH", "./data"),
			PostgresDSN:        getEnv("RELREG_POSTGRES_DSN", ""),
			SnapshotOnShutdown: getEnvBool("RELREG_SNAPSHOT_ON_SHUTDOWN", true),
		},
		Security: SecurityConfig{
			SecurityMode: getEnv("RELREG_SECURITY_MODE", "development"),
			APIToken:     getEnv("RELREG_API_TOKEN", ""),
		},
		Seeds: SeedsConfig{
			SeedFile: getEnv("RELREG_SEED_FILE", ""),
		},
	}, nil
}

// getEnv retrieves an environment variable or returns the default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
