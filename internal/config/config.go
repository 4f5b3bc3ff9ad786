// Package config loads runtime settings from VIM_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. VIM_STORE_URL.
const Prefix = "VIM"

// SQLiteScheme marks a StoreURL that points at a local SQLite file.
const SQLiteScheme = "sqlite:"

// Config holds the settings for the CLI and the dev server. Flags override
// these values.
type Config struct {
	// StoreURL is the table endpoint, or sqlite:<path> for a local file.
	StoreURL string `envconfig:"STORE_URL" default:"http://localhost:8080/records"`

	// HTTPTimeout bounds each store request. Zero disables it.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	Debug     bool   `envconfig:"DEBUG" default:"false"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	// Dev server
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
	DBPath     string `envconfig:"DB_PATH" default:""`
}

// New parses the environment and fills derived defaults.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveDefaults validates the config and derives DBPath when unset.
func (c *Config) ResolveDefaults() error {
	if c.DBPath == "" {
		home, _ := os.UserHomeDir()
		c.DBPath = filepath.Join(home, ".vim-tracker", "records.db")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT: %s", c.LogFormat)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be >= 0, got %s", c.HTTPTimeout)
	}
	if c.StoreURL == "" {
		return fmt.Errorf("STORE_URL is required")
	}
	return nil
}

// SQLitePath returns the file path when StoreURL uses the sqlite: scheme.
func (c *Config) SQLitePath() (string, bool) {
	if !strings.HasPrefix(c.StoreURL, SQLiteScheme) {
		return "", false
	}
	return strings.TrimPrefix(c.StoreURL, SQLiteScheme), true
}
