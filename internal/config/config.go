// Package config loads default command line settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds defaults for the play, inspect and export commands. Flags given
// on the command line take precedence.
type Config struct {
	Tempo           int    `yaml:"tempo,omitempty"`
	Samples         string `yaml:"samples,omitempty"`
	Instrumentation string `yaml:"instrumentation,omitempty"`
	Repeat          bool   `yaml:"repeat,omitempty"`
	TUI             bool   `yaml:"tui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Tempo: 120,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "rudiments"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config at path. With an empty path the default location is
// used, and a missing default file yields DefaultConfig. A path given
// explicitly must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of DefaultConfig.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Samples != "" {
		cfg.Samples = expandHome(cfg.Samples)
	}
	if cfg.Instrumentation != "" {
		cfg.Instrumentation = expandHome(cfg.Instrumentation)
	}
	return cfg, nil
}

// Validate rejects tempos that cannot be played.
func (c *Config) Validate() error {
	if c.Tempo <= 0 || c.Tempo > math.MaxUint16 {
		return fmt.Errorf("config tempo %d out of range 1-%d", c.Tempo, math.MaxUint16)
	}
	return nil
}

// Save writes cfg to path as YAML, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}

func expandHome(p string) string {
	if len(p) < 2 || p[:2] != "~/" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
