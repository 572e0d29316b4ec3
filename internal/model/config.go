package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// RemindersConfig holds settings for the reminder poller.
type RemindersConfig struct {
	// PollIntervalSec is how often the poller rescans for due goal starts.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// LookbackSec is how far behind "now" a goal start may be and still
	// fire. Starts older than this are considered missed and skipped.
	LookbackSec int `mapstructure:"lookback_sec" yaml:"lookback_sec"`
}

// ServerConfig holds settings for the local HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// DBPath is the SQLite database location. Empty means the default
	// under the user config directory.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	Reminders RemindersConfig `mapstructure:"reminders" yaml:"reminders"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/routine/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "routine", "config.yaml")
}

// DefaultDBPath returns the default SQLite database path,
// located at ~/.config/routine/routine.db.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "routine.db")
	}
	return filepath.Join(home, ".config", "routine", "routine.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Reminders: RemindersConfig{
			PollIntervalSec: 30,
			LookbackSec:     120,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7333",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("reminders.poll_interval_sec", 30)
	v.SetDefault("reminders.lookback_sec", 120)
	v.SetDefault("server.addr", "127.0.0.1:7333")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Reminders.PollIntervalSec <= 0 {
		cfg.Reminders.PollIntervalSec = 30
	}
	if cfg.Reminders.LookbackSec <= 0 {
		cfg.Reminders.LookbackSec = 120
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

	v.Set("db_path", cfg.DBPath)
	v.Set("reminders", cfg.Reminders)
	v.Set("server", cfg.Server)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
