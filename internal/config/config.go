// Package config loads runtime configuration from the process environment,
// with optional .env overrides for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the resolved runtime configuration for the dashboard.
type Config struct {
	// App
	LogLevel      string        `split_words:"true" default:"info" validate:"oneof=debug info warn error"`
	Port          int           `split_words:"true" default:"5000" validate:"gt=0,lt=65536"`
	ShutdownGrace time.Duration `split_words:"true" default:"15s" validate:"gt=0"`

	// Sessions
	SessionSecret string `split_words:"true" default:"dev-secret-key" validate:"required"`

	// GitHub. An empty token is allowed: unauthenticated requests work but
	// hit the tighter upstream rate limits.
	GithubToken       string        `split_words:"true"`
	HTTPClientTimeout time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s" validate:"gt=0"`

	// Cache
	CacheBackend string        `split_words:"true" default:"file" validate:"oneof=file memory"`
	CacheDir     string        `split_words:"true" default:"cache"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"24h" validate:"gt=0"`
	CacheSize    int           `split_words:"true" default:"1024" validate:"gt=0"`
}

// Loader loads and validates a Config from the environment.
type Loader struct {
	Prefix   string
	Validate *validator.Validate
}

func NewLoader(prefix string) *Loader {
	return &Loader{Prefix: prefix, Validate: validator.New()}
}

func (l *Loader) Load() (Config, error) {
	var cfg Config

	if err := loadDotEnv(); err != nil {
		slog.Debug("dotenv not loaded", "error", err)
	}
	if err := envconfig.Process(l.Prefix, &cfg); err != nil {
		return cfg, fmt.Errorf("env load: %w", err)
	}
	if err := l.Validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config validation: %w", err)
	}

	slog.Info("config loaded",
		"log_level", cfg.LogLevel,
		"port", cfg.Port,
		"cache_backend", cfg.CacheBackend,
		"cache_ttl", cfg.CacheTTL,
		"github_token_set", cfg.GithubToken != "",
	)
	return cfg, nil
}

// SlogLevel maps the configured level string onto a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return fmt.Errorf("no .env file found")
	}
	return godotenv.Overload(".env")
}
