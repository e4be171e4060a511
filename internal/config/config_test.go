package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvRequiresDatabaseAndSecret(t *testing.T) {
	_, err := FromEnv(envFrom(map[string]string{"JWT_SECRET": "s"}))
	assert.EqualError(t, err, "DATABASE_URL is not set")

	_, err = FromEnv(envFrom(map[string]string{"DATABASE_URL": "postgres://x"}))
	assert.EqualError(t, err, "JWT_SECRET is not set")
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"DATABASE_URL": "postgres://x",
		"JWT_SECRET":   "s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5, cfg.AuthRateLimit)
	assert.Equal(t, time.Minute, cfg.AuthRateWindow)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"DATABASE_URL":      "postgres://x",
		"JWT_SECRET":        "s",
		"APP_PORT":          "9000",
		"PUBLIC_URL":        "https://tasks.example.com/",
		"SESSION_TTL_HOURS": "2",
		"REDIS_DB":          "3",
		"CORS_ORIGINS":      "https://a.example.com, https://b.example.com",
		"API_RATE_LIMIT":    "oops",
		"DEV_MODE":          "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "https://tasks.example.com", cfg.PublicURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 120, cfg.APIRateLimit)
	assert.True(t, cfg.DevMode)
}

func TestLoadClientMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadClient(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultServerURL, cfg.ServerURL)
	assert.Zero(t, cfg.Timeout)
}

func TestSaveAndLoadClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveClient(path, &ClientConfig{ServerURL: "https://tasks.example.com/", Timeout: 5 * time.Second}))

	cfg, err := LoadClient(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tasks.example.com", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}
