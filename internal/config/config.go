package config

import (
	"fmt"
	"os"
)

// Storage backend names accepted in STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Port         string
	StoreBackend string
	DatabaseURL  string
	RedisURL     string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		StoreBackend: getEnv("STORE_BACKEND", BackendPostgres),
		DatabaseURL:  getEnv("DATABASE_URL", "postgres://localhost/webhooks_inspector"),
		RedisURL:     getEnv("REDIS_URL", ""),
	}

	switch cfg.StoreBackend {
	case BackendPostgres, BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when STORE_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
