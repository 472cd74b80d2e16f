// Package config loads the application-level configuration from
// ~/.config/regionshade/config.yaml. The slot file and the shortcuts file
// keep their own plain-text formats for compatibility; this config only
// points at them and tunes daemon behavior.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the effective application configuration.
type Config struct {
	// Display and XAuthority override the X11 connection environment.
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`

	// SlotsFile is the saved rectangle file path.
	SlotsFile string `yaml:"slots_file,omitempty"`
	// ShortcutsFile is the keyboard shortcut file path.
	ShortcutsFile string `yaml:"shortcuts_file,omitempty"`

	// RefreshIntervalMS is the daemon tick driving topmost re-assertion
	// and transient message expiry. Default 16 (roughly 60Hz).
	RefreshIntervalMS int `yaml:"refresh_interval_ms,omitempty"`
	// FlashDurationMS is how long transient status messages stay up.
	FlashDurationMS int `yaml:"flash_duration_ms,omitempty"`
	// Topmost keeps the filter window above other windows, re-asserted
	// every tick. Default true.
	Topmost *bool `yaml:"topmost,omitempty"`
}

// DefaultConfigPath returns ~/.config/regionshade/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "regionshade", "config.yaml"), nil
}

// DefaultConfig returns the built-in configuration. File paths live next
// to the config file itself.
func DefaultConfig() *Config {
	cfg := &Config{
		RefreshIntervalMS: 16,
		FlashDurationMS:   2000,
	}
	if dir, err := configDir(); err == nil {
		cfg.SlotsFile = filepath.Join(dir, "saved_rects.txt")
		cfg.ShortcutsFile = filepath.Join(dir, "shortcuts.txt")
	}
	return cfg
}

func configDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "regionshade"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from path. A missing file yields
// the defaults; set fields override defaults field by field.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.RefreshIntervalMS <= 0 {
		return fmt.Errorf("refresh_interval_ms must be positive, got %d", c.RefreshIntervalMS)
	}
	if c.FlashDurationMS <= 0 {
		return fmt.Errorf("flash_duration_ms must be positive, got %d", c.FlashDurationMS)
	}
	if c.SlotsFile == "" {
		return fmt.Errorf("slots_file is required")
	}
	if c.ShortcutsFile == "" {
		return fmt.Errorf("shortcuts_file is required")
	}
	return nil
}

// RefreshInterval returns the tick interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}

// FlashDuration returns the transient message lifetime as a duration.
func (c *Config) FlashDuration() time.Duration {
	return time.Duration(c.FlashDurationMS) * time.Millisecond
}

// TopmostEnabled reports whether topmost re-assertion is on (default true).
func (c *Config) TopmostEnabled() bool {
	return c.Topmost == nil || *c.Topmost
}

// Print writes the effective configuration as YAML.
func (c *Config) Print() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(data), nil
}

// WriteDefault writes a default config file at path, creating parent
// directories as needed. Refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	out, err := DefaultConfig().Print()
	if err != nil {
		return err
	}
	header := "# regionshade configuration\n# All fields are optional; these are the defaults.\n"
	if err := os.WriteFile(path, []byte(header+out), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
