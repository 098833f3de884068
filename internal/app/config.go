package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string `env:"SELFREG_MANIFEST"` // hcl or yaml file, optional

	LogFormat string `env:"SELFREG_LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"SELFREG_LOG_LEVEL" envDefault:"info"`

	// Strict turns unresolved dependencies into a startup error.
	Strict bool `env:"SELFREG_STRICT"`
	// Parallelism overrides the manifest when greater than zero.
	Parallelism int `env:"SELFREG_PARALLELISM"`
	// ListOnly prints the registry and skips running systems.
	ListOnly bool
}

// ConfigFromEnv returns a Config populated from SELFREG_* environment
// variables. It is not validated.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// NewConfig validates cfg and fills in defaults for empty fields.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	var errs []error
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", cfg.LogLevel))
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat))
	}
	if cfg.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("invalid parallelism %d: must not be negative", cfg.Parallelism))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cfg, nil
}
