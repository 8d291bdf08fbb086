package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	JWTSecret      string // Signing key for access tokens
	AdminSignupKey string // Shared secret required to create admin accounts
	TokenTTL       time.Duration
	StockThreshold int    // Stock level at or below which a product is flagged
	StockSweepSpec string // Cron spec for the low-stock watcher
}

// Load loads configuration from environment variables or sets defaults.
// JWT_SECRET and ADMIN_SIGNUP_KEY have no defaults: a missing value is a
// startup error, never a per-request one.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	secret, ok := os.LookupEnv("JWT_SECRET")
	if !ok || secret == "" {
		return nil, fmt.Errorf("missing required environment variable: JWT_SECRET")
	}

	adminKey, ok := os.LookupEnv("ADMIN_SIGNUP_KEY")
	if !ok || adminKey == "" {
		return nil, fmt.Errorf("missing required environment variable: ADMIN_SIGNUP_KEY")
	}

	ttlStr := getEnv("TOKEN_TTL", "24h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", ttlStr, err)
	}

	thresholdStr := getEnv("STOCK_THRESHOLD", "5")
	threshold, err := strconv.Atoi(thresholdStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STOCK_THRESHOLD %q: %w", thresholdStr, err)
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./scello.db"),
		JWTSecret:      secret,
		AdminSignupKey: adminKey,
		TokenTTL:       ttl,
		StockThreshold: threshold,
		StockSweepSpec: getEnv("STOCK_SWEEP_SPEC", "@every 5m"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
