// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppName names the config and data directories.
const AppName = "dailywords"

// Default configuration values.
const (
	DefaultTitle      = "Daily Words"
	DefaultStateFile  = "state.json"
	DefaultConfigFile = "config.toml"
)

// Config represents the dailywords configuration.
type Config struct {
	Store     StoreConfig     `toml:"store"`
	Words     WordsConfig     `toml:"words"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	TUI       TUIConfig       `toml:"tui"`
	Clipboard ClipboardConfig `toml:"clipboard"`
}

// StoreConfig holds persistence options.
type StoreConfig struct {
	Path string `toml:"path"` // Empty = $XDG_DATA_HOME/dailywords/state.json
}

// WordsConfig holds word bank options.
type WordsConfig struct {
	File string `toml:"file"` // Empty = embedded bank
}

// ScheduleConfig holds midnight reset options.
type ScheduleConfig struct {
	Rearm bool `toml:"rearm"` // Re-arm the midnight timer after it fires
}

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	Title    string `toml:"title"`
	ShowHelp bool   `toml:"show_help"`
	Debug    bool   `toml:"debug"` // Start with debug mode enabled
}

// ClipboardConfig holds clipboard settings (TUI only).
type ClipboardConfig struct {
	Command string `toml:"command"` // Auto-detected if empty
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			Rearm: true,
		},
		TUI: TUIConfig{
			Title:    DefaultTitle,
			ShowHelp: true,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName, DefaultConfigFile)
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// StatePath returns the configured state file path, falling back to the data directory.
func (c *Config) StatePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(DataPath(), DefaultStateFile)
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.TUI.Title == "" {
		cfg.TUI.Title = DefaultTitle
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
