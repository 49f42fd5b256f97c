// Package config provides configuration management for imapd.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the server configuration: the three keys the core
// accept loop recognizes (Address, MaxConnections, ErrorTimeout) plus
// the ambient logging and metrics settings every deployment carries.
type Config struct {
	Address        string        `toml:"address"`
	MaxConnections int           `toml:"max_connections"`
	ErrorTimeout   string        `toml:"error_timeout"`
	LogLevel       string        `toml:"log_level"`
	Metrics        MetricsConfig `toml:"metrics"`
}

// MetricsConfig holds configuration for Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
	Path    string `toml:"path"`
}

// Default returns a Config with sensible default values.
func Default() Config {
	return Config{
		Address:        "127.0.0.1:3143",
		MaxConnections: 100,
		ErrorTimeout:   "500ms",
		LogLevel:       "info",
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9102",
			Path:    "/metrics",
		},
	}
}

// Validate checks that the configuration is valid and returns an
// error if not.
func (c *Config) Validate() error {
	if c.Address == "" {
		return errors.New("address is required")
	}

	if c.MaxConnections <= 0 {
		return errors.New("max_connections must be positive")
	}

	if c.ErrorTimeout != "" {
		if _, err := time.ParseDuration(c.ErrorTimeout); err != nil {
			return fmt.Errorf("invalid error_timeout: %w", err)
		}
	}

	if c.Metrics.Enabled {
		if c.Metrics.Address == "" {
			return errors.New("metrics address is required when metrics are enabled")
		}
		if c.Metrics.Path == "" {
			return errors.New("metrics path is required when metrics are enabled")
		}
	}

	return nil
}

// ErrorTimeoutDuration returns the accept-loop backoff as a
// time.Duration. Returns 500ms if not configured or invalid.
func (c *Config) ErrorTimeoutDuration() time.Duration {
	if c.ErrorTimeout == "" {
		return 500 * time.Millisecond
	}
	d, err := time.ParseDuration(c.ErrorTimeout)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}
