package config

import (
	"flag"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Flags holds command-line flag values.
type Flags struct {
	ConfigPath     string
	Address        string
	LogLevel       string
	MaxConnections int
	ErrorTimeout   string
	MetricsEnabled bool
	MetricsAddress string
}

// ParseFlags parses command-line flags and returns a Flags struct.
func ParseFlags() *Flags {
	f := &Flags{}

	flag.StringVar(&f.ConfigPath, "config", "./imapd.toml", "Path to configuration file")
	flag.StringVar(&f.Address, "address", "", "Listen address (host:port)")
	flag.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.IntVar(&f.MaxConnections, "max-connections", 0, "Maximum concurrent connections")
	flag.StringVar(&f.ErrorTimeout, "error-timeout", "", "Accept loop backoff after a transient error")
	flag.BoolVar(&f.MetricsEnabled, "metrics", false, "Enable the Prometheus metrics endpoint")
	flag.StringVar(&f.MetricsAddress, "metrics-address", "", "Metrics listen address")

	flag.Parse()
	return f
}

// Load parses a TOML configuration file and returns the Config.
// If the file does not exist, returns the default configuration.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig Config
	if err := toml.Unmarshal(data, &fileConfig); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	return mergeConfig(cfg, fileConfig), nil
}

// ApplyFlags merges command-line flag values into the config.
// Non-zero/non-empty flag values override config file values.
func ApplyFlags(cfg Config, f *Flags) Config {
	if f.Address != "" {
		cfg.Address = f.Address
	}

	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}

	if f.MaxConnections > 0 {
		cfg.MaxConnections = f.MaxConnections
	}

	if f.ErrorTimeout != "" {
		cfg.ErrorTimeout = f.ErrorTimeout
	}

	if f.MetricsEnabled {
		cfg.Metrics.Enabled = true
	}

	if f.MetricsAddress != "" {
		cfg.Metrics.Address = f.MetricsAddress
	}

	return cfg
}

// LoadWithFlags loads configuration from the path specified in flags,
// then applies flag overrides.
func LoadWithFlags(f *Flags) (Config, error) {
	cfg, err := Load(f.ConfigPath)
	if err != nil {
		return cfg, err
	}
	return ApplyFlags(cfg, f), nil
}

// mergeConfig merges non-zero values from src into dst.
func mergeConfig(dst, src Config) Config {
	if src.Address != "" {
		dst.Address = src.Address
	}

	if src.MaxConnections > 0 {
		dst.MaxConnections = src.MaxConnections
	}

	if src.ErrorTimeout != "" {
		dst.ErrorTimeout = src.ErrorTimeout
	}

	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}

	if src.Metrics.Enabled {
		dst.Metrics.Enabled = src.Metrics.Enabled
	}

	if src.Metrics.Address != "" {
		dst.Metrics.Address = src.Metrics.Address
	}

	if src.Metrics.Path != "" {
		dst.Metrics.Path = src.Metrics.Path
	}

	return dst
}
