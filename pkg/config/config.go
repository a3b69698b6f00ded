// Package config loads the almanac YAML configuration file.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds settings that can also be given as CLI flags. Flags the
// user sets explicitly take precedence over the file.
type Config struct {
	Datastore   string `yaml:"datastore"`    // datastore directory, ":memory:" or postgres:// URL
	Workers     int    `yaml:"workers"`      // part 2 parallelism
	Color       string `yaml:"color"`        // auto, always, never
	LogLevel    string `yaml:"log_level"`    // debug, info, warn, error
	StoreInputs bool   `yaml:"store_inputs"` // keep copies of solved inputs
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Datastore: "almanac.ds",
		Workers:   runtime.NumCPU(),
		Color:     "auto",
		LogLevel:  "warn",
	}
}

// Load reads a YAML configuration file over the defaults, then applies
// ALMANAC_DATASTORE and ALMANAC_WORKERS from the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if ds := os.Getenv("ALMANAC_DATASTORE"); ds != "" {
		c.Datastore = ds
	}
	if w := os.Getenv("ALMANAC_WORKERS"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			return fmt.Errorf("ALMANAC_WORKERS: %w", err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
