package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB           DatabaseConfig
	Redis        RedisConfig
	G2Bulk       G2BulkConfig
	Verification VerificationConfig
	Worker       WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// G2BulkConfig contains credentials for the G2Bulk supplier API.
type G2BulkConfig struct {
	BaseURL string
	APIKey  string
}

// VerificationConfig tunes the player-ID verification adapter.
type VerificationConfig struct {
	CacheTTL        time.Duration
	RequestTimeout  time.Duration
	FreeFallbackURL string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	FulfillmentInterval time.Duration
	FulfillmentMaxAge   time.Duration
	SyncInterval        time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// G2Bulk supplier
	cfg.G2Bulk = G2BulkConfig{
		BaseURL: getEnv("G2BULK_BASE_URL", "https://api.g2bulk.com/v1"),
		APIKey:  getEnv("G2BULK_API_KEY", ""),
	}

	var err error

	// Verification adapter
	cfg.Verification.FreeFallbackURL = getEnv("VERIFY_FREE_FALLBACK_URL", "https://api.isan.eu.org/nickname")
	if cfg.Verification.CacheTTL, err = parseDurationEnv("VERIFY_CACHE_TTL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid VERIFY_CACHE_TTL: %w", err)
	}
	if cfg.Verification.RequestTimeout, err = parseDurationEnv("VERIFY_REQUEST_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid VERIFY_REQUEST_TIMEOUT: %w", err)
	}

	// Workers (durations)
	if cfg.Worker.FulfillmentInterval, err = parseDurationEnv("FULFILLMENT_INTERVAL", "5s"); err != nil {
		return nil, fmt.Errorf("invalid FULFILLMENT_INTERVAL: %w", err)
	}
	if cfg.Worker.FulfillmentMaxAge, err = parseDurationEnv("FULFILLMENT_MAX_AGE", "10m"); err != nil {
		return nil, fmt.Errorf("invalid FULFILLMENT_MAX_AGE: %w", err)
	}
	if cfg.Worker.SyncInterval, err = parseDurationEnv("SYNC_INTERVAL", "6h"); err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
