// Package config loads the user configuration file. Anything missing or
// malformed falls back to defaults; configuration can never prevent
// startup.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the user-tunable knobs
type Config struct {
	// AltAssigneePrefix marks labels that encode an alternative assignee
	AltAssigneePrefix string `yaml:"alt_assignee_prefix"`

	// SettleRetries bounds how often the board precondition is rechecked
	SettleRetries int `yaml:"settle_retries"`

	// SettleBackoffMS is the fixed delay between precondition checks
	SettleBackoffMS int `yaml:"settle_backoff_ms"`

	// StatePath overrides where the persistence database lives
	StatePath string `yaml:"state_path"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		AltAssigneePrefix: "👤::",
		SettleRetries:     5,
		SettleBackoffMS:   200,
	}
}

// SettleBackoff returns the backoff as a duration
func (c Config) SettleBackoff() time.Duration {
	return time.Duration(c.SettleBackoffMS) * time.Millisecond
}

// DefaultPath returns the conventional config location
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "compass", "config.yaml")
}

// DefaultStatePath returns the conventional persistence location
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "compass-state.db"
	}
	return filepath.Join(dir, "compass", "state.db")
}

// Load reads the config at path, layering it over the defaults. A
// missing or malformed file yields the defaults.
func Load(path string) Config {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Default()
	}
	if file.AltAssigneePrefix != "" {
		cfg.AltAssigneePrefix = file.AltAssigneePrefix
	}
	if file.SettleRetries > 0 {
		cfg.SettleRetries = file.SettleRetries
	}
	if file.SettleBackoffMS > 0 {
		cfg.SettleBackoffMS = file.SettleBackoffMS
	}
	if file.StatePath != "" {
		cfg.StatePath = file.StatePath
	}
	return cfg
}
