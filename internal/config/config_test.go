package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_SIGNUP_KEY", "adm1n")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.ServerPort)
	require.Equal(t, "./scello.db", cfg.DatabasePath)
	require.Equal(t, "s3cret", cfg.JWTSecret)
	require.Equal(t, "adm1n", cfg.AdminSignupKey)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 5, cfg.StockThreshold)
	require.Equal(t, "@every 5m", cfg.StockSweepSpec)
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("ADMIN_SIGNUP_KEY", "adm1n")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_SIGNUP_KEY", "")
	_, err = Load()
	require.ErrorContains(t, err, "ADMIN_SIGNUP_KEY")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("STOCK_THRESHOLD", "10")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.ServerPort)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, 10, cfg.StockThreshold)
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequired(t)

	t.Setenv("PORT", "not-a-port")
	_, err := Load()
	require.ErrorContains(t, err, "PORT")

	t.Setenv("PORT", "8080")
	t.Setenv("TOKEN_TTL", "sometime")
	_, err = Load()
	require.ErrorContains(t, err, "TOKEN_TTL")
}
