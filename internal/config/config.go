package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"easyplot/internal/logger"
)

// Backends selectable for PNG and SVG output.
const (
	BackendGoChart = "gochart"
	BackendGonum   = "gonum"
)

// Display modes.
const (
	DisplayNone    = "none"
	DisplayGallery = "gallery"
)

// Config holds all configuration for easyplot
type Config struct {
	// Plotting defaults
	Style   string  `env:"EASYPLOT_STYLE,default=default"`
	Backend string  `env:"EASYPLOT_BACKEND,default=gochart"`
	DPI     float64 `env:"EASYPLOT_DPI,default=300"`
	Display string  `env:"EASYPLOT_DISPLAY,default=none"`

	// Relative local save paths are resolved against OutputDir when it is set
	OutputDir string `env:"EASYPLOT_OUTPUT_DIR"`

	// Default GCS bucket; relative save paths are uploaded to it when set
	GCSBucket string `env:"GCS_BUCKET"`

	// Gallery server
	Port string `env:"PORT,default=8981"`

	// Remote chart documents
	FetchTimeout time.Duration `env:"EASYPLOT_FETCH_TIMEOUT,default=30s"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values and ranges
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendGoChart, BackendGonum:
	default:
		return fmt.Errorf("EASYPLOT_BACKEND: unknown backend %q (want %s or %s)", c.Backend, BackendGoChart, BackendGonum)
	}
	switch c.Display {
	case DisplayNone, DisplayGallery:
	default:
		return fmt.Errorf("EASYPLOT_DISPLAY: unknown mode %q (want %s or %s)", c.Display, DisplayNone, DisplayGallery)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("EASYPLOT_DPI: must be positive, got %v", c.DPI)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("EASYPLOT_FETCH_TIMEOUT: must be positive, got %v", c.FetchTimeout)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("LOG_FORMAT: %w", err)
	}
	return nil
}
