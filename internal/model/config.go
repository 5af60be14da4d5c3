package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DatabaseConfig holds settings for the authoritative store.
type DatabaseConfig struct {
	// Path is the SQLite database file location.
	Path string `mapstructure:"path" yaml:"path"`
}

// SyncConfig holds tuning for the live sync listener.
type SyncConfig struct {
	// RefreshTimeoutSec caps a single re-list operation.
	RefreshTimeoutSec int `mapstructure:"refresh_timeout_sec" yaml:"refresh_timeout_sec"`

	// FeedBufferSize is the per-subscription event buffer.
	FeedBufferSize int `mapstructure:"feed_buffer_size" yaml:"feed_buffer_size"`
}

// NotificationsConfig holds notification delivery preferences.
type NotificationsConfig struct {
	// Enabled controls whether delegation events generate
	// notifications at all. The workflows still succeed when off.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// AppConfig is the top-level configuration for the delegation subsystem.
type AppConfig struct {
	Database      DatabaseConfig      `mapstructure:"database" yaml:"database"`
	Sync          SyncConfig          `mapstructure:"sync" yaml:"sync"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskmanager/delegation.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "delegation.yaml")
	}
	return filepath.Join(home, ".config", "taskmanager", "delegation.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	home, _ := os.UserHomeDir()
	return &AppConfig{
		Database: DatabaseConfig{
			Path: filepath.Join(home, ".local", "share", "taskmanager", "tasks.db"),
		},
		Sync: SyncConfig{
			RefreshTimeoutSec: 30,
			FeedBufferSize:    16,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("database.path", defaults.Database.Path)
	v.SetDefault("sync.refresh_timeout_sec", defaults.Sync.RefreshTimeoutSec)
	v.SetDefault("sync.feed_buffer_size", defaults.Sync.FeedBufferSize)
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Sync.RefreshTimeoutSec <= 0 {
		cfg.Sync.RefreshTimeoutSec = defaults.Sync.RefreshTimeoutSec
	}
	if cfg.Sync.FeedBufferSize <= 0 {
		cfg.Sync.FeedBufferSize = defaults.Sync.FeedBufferSize
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("sync", cfg.Sync)
	v.Set("notifications", cfg.Notifications)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
