package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends understood by the storage factory
const (
	StorageLocal = "local"
	StorageGCS   = "gcs"
)

// Config holds all configuration for the report widgets toolkit
type Config struct {
	// Template resources. Empty dir and URL mean the embedded defaults.
	TemplatesDir   string `env:"WIDGETS_TEMPLATES_DIR"`
	TemplatesURL   string `env:"WIDGETS_TEMPLATES_URL"`
	CacheTemplates bool   `env:"WIDGETS_CACHE_TEMPLATES,default=false"`

	// Publishing
	StorageBackend  string `env:"STORAGE_BACKEND,default=local"`
	LocalReportsDir string `env:"LOCAL_REPORTS_DIR,default=./reports"`
	GCSBucket       string `env:"GCS_BUCKET"`

	// Preview server
	Port string `env:"PORT,default=8981"`

	// Remote fetches (templates over HTTP, news feeds)
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT,default=30s"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith loads configuration using the given lookuper
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	switch strings.ToLower(c.StorageBackend) {
	case StorageLocal:
	case StorageGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when STORAGE_BACKEND=%s", StorageGCS)
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s", c.StorageBackend)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}
