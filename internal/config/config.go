// Package config loads the YAML application configuration, creating a
// default file on first run.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// DefaultCalendar is the calendar created and selected when a session
	// starts with an empty book.
	DefaultCalendar string `yaml:"default_calendar"`

	// Timezone is the IANA timezone for the default calendar.
	Timezone string `yaml:"timezone"`

	// LogLevel controls CLI logging: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the in-memory default configuration.
func Default() *Config {
	return &Config{
		DefaultCalendar: "Default",
		Timezone:        "UTC",
		LogLevel:        "info",
	}
}

// Normalize fills missing values with defaults so partially-filled config
// files still behave.
func (c *Config) Normalize() {
	if c.DefaultCalendar == "" {
		c.DefaultCalendar = "Default"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate rejects values that would break the session before it starts.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Load reads the configuration at path. A missing file is not an error: the
// default config is written there and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := Save(path, cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to path, creating the parent directory when
// needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}
