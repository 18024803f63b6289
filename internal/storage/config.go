package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jacksmith/todo/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	// userConfigFile is the name of the user configuration file (sibling to .todo/).
	userConfigFile = ".todoconfig.yaml"

	// Default configuration values
	DefaultConfirm       = true
	DefaultWelcome       = true
	DefaultDefaultFilter = model.FilterAll
)

// Config represents user configuration from .todoconfig.yaml.
// This file is user-managed and never written by todo.
type Config struct {
	// Confirm asks before deleting tasks or clearing completed ones.
	Confirm bool `yaml:"confirm"`

	// Welcome shows the tips message the first time an empty list is viewed.
	Welcome bool `yaml:"welcome"`

	// DefaultFilter is the filter used by `todo list` and the TUI when none is given.
	DefaultFilter model.Filter `yaml:"default_filter"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Confirm:       DefaultConfirm,
		Welcome:       DefaultWelcome,
		DefaultFilter: DefaultDefaultFilter,
	}
}

// LoadConfig loads .todoconfig.yaml if it exists, otherwise returns defaults.
// The config file is a sibling to .todo/ (in the same directory).
// Partial config files are merged with defaults.
func (s *Storage) LoadConfig() (*Config, error) {
	if s.root == "" {
		return DefaultConfig(), nil
	}
	configPath := s.ConfigPath()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", userConfigFile, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", userConfigFile, err)
	}

	filter, err := model.ParseFilter(string(cfg.DefaultFilter))
	if err != nil {
		return nil, fmt.Errorf("invalid default_filter in %s: %w", userConfigFile, err)
	}
	cfg.DefaultFilter = filter

	return cfg, nil
}

// ConfigPath returns the path to the user config file.
func (s *Storage) ConfigPath() string {
	return filepath.Join(s.root, userConfigFile)
}
