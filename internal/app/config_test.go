package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join("testdata")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)

	require.Equal(t, "file-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWT.TTL)
	require.Len(t, cfg.Auth.DataKey, 16)

	require.Equal(t, []string{"/auth/sign-in", "/api"}, cfg.Guard.Whitelist)
	require.Equal(t, 30, cfg.Maintenance.HistoryRetentionDays)
	require.Equal(t, "@hourly", cfg.Maintenance.HistorySchedule)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PRICEDESK_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("PRICEDESK_AUTH_DATA_KEY", "0123456789abcdef0123456789abcdef")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.JWT.TTL)
	require.Contains(t, cfg.Guard.Whitelist, "/auth/sign-in")
	require.Contains(t, cfg.Guard.Whitelist, "/api")
	require.Equal(t, 365, cfg.Maintenance.HistoryRetentionDays)
}

func TestLoadConfigRejectsBadDataKey(t *testing.T) {
	t.Setenv("PRICEDESK_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("PRICEDESK_AUTH_DATA_KEY", "too-short")

	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("PRICEDESK_AUTH_JWT_SECRET", "")
	t.Setenv("PRICEDESK_AUTH_DATA_KEY", "0123456789abcdef")

	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
}
