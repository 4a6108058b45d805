package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader("APP").Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "dev-secret-key", cfg.SessionSecret)
	assert.Equal(t, "file", cfg.CacheBackend)
	assert.Equal(t, "cache", cfg.CacheDir)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.HTTPClientTimeout)
	assert.Empty(t, cfg.GithubToken)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_GITHUB_TOKEN", "ghp_test")
	t.Setenv("APP_CACHE_BACKEND", "memory")
	t.Setenv("APP_CACHE_TTL", "1h")

	cfg, err := NewLoader("APP").Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "ghp_test", cfg.GithubToken)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "verbose")

	_, err := NewLoader("APP").Load()
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", Config{LogLevel: "debug"}.SlogLevel().String())
	assert.Equal(t, "INFO", Config{LogLevel: "info"}.SlogLevel().String())
	assert.Equal(t, "WARN", Config{LogLevel: "warn"}.SlogLevel().String())
	assert.Equal(t, "ERROR", Config{LogLevel: "error"}.SlogLevel().String())
}
