package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imagesort/internal/errors"

	"gopkg.in/yaml.v3"
)

// MoveTarget is a quick-move destination bound to a key in the browser.
type MoveTarget struct {
	Key    string `yaml:"key"`    // Single key that triggers the move (e.g. "1")
	Folder string `yaml:"folder"` // Destination folder
}

// Config represents the application configuration structure.
type Config struct {
	Browse struct {
		DefaultFolder string       `yaml:"default_folder"` // Folder opened when none is given
		MoveTargets   []MoveTarget `yaml:"move_targets"`   // Quick-move folders
	} `yaml:"browse"`
	History struct {
		Limit int `yaml:"limit"` // Maximum undo depth, 0 = unlimited
	} `yaml:"history"`
	Watch struct {
		Enabled     bool `yaml:"enabled"`      // Follow external changes to the folder
		Buffer      int  `yaml:"buffer"`       // Event channel capacity
		ErrorBuffer int  `yaml:"error_buffer"` // Watch errors held for the UI before dropping
	} `yaml:"watch"`
	Log struct {
		Debug bool   `yaml:"debug"`
		JSON  bool   `yaml:"json"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// DefaultPath returns ~/.config/imagesort/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "imagesort", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Decode over the defaults so unset keys keep their default values
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if cfg.Browse.DefaultFolder == "" {
		cfg.Browse.DefaultFolder = "."
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Browse.DefaultFolder = "."
	cfg.Browse.MoveTargets = []MoveTarget{}

	cfg.History.Limit = 0

	cfg.Watch.Enabled = true
	cfg.Watch.Buffer = 64
	cfg.Watch.ErrorBuffer = 16

	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", nil)
	}

	if c.History.Limit < 0 {
		return errors.NewConfigError("history limit must be >= 0", "history.limit", nil)
	}

	if c.Watch.Buffer < 1 {
		return errors.NewConfigError("watch buffer must be >= 1", "watch.buffer", nil)
	}

	if c.Watch.ErrorBuffer < 1 {
		return errors.NewConfigError("watch error buffer must be >= 1", "watch.error_buffer", nil)
	}

	seen := make(map[string]bool, len(c.Browse.MoveTargets))
	for i, target := range c.Browse.MoveTargets {
		param := fmt.Sprintf("browse.move_targets[%d]", i)
		if strings.TrimSpace(target.Folder) == "" {
			return errors.NewConfigError("move target folder is required", param, nil)
		}
		if len([]rune(target.Key)) != 1 {
			return errors.NewConfigError("move target key must be a single character", param, nil)
		}
		if seen[target.Key] {
			return errors.NewConfigError(fmt.Sprintf("duplicate move target key %q", target.Key), param, nil)
		}
		seen[target.Key] = true
	}

	return nil
}

// MoveTarget returns the folder bound to key.
func (c *Config) MoveTarget(key string) (string, bool) {
	for _, target := range c.Browse.MoveTargets {
		if target.Key == key {
			return target.Folder, true
		}
	}
	return "", false
}
