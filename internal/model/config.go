package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// PlannerConfig holds per-weekday capacity defaults in hours.
type PlannerConfig struct {
	WeekdayHours  float64 `mapstructure:"weekday_hours" yaml:"weekday_hours"`
	SaturdayHours float64 `mapstructure:"saturday_hours" yaml:"saturday_hours"`
	SundayHours   float64 `mapstructure:"sunday_hours" yaml:"sunday_hours"`
}

// DigestConfig holds daily digest defaults applied when the store has
// no per-user settings row yet.
type DigestConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	SendHour  int    `mapstructure:"send_hour" yaml:"send_hour"`
	Recipient string `mapstructure:"recipient" yaml:"recipient"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// UserID identifies the local user. Mutations fail when it is empty.
	UserID string `mapstructure:"user_id" yaml:"user_id"`

	// DBPath is the SQLite database location. Empty means the default
	// next to the config file.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	Planner PlannerConfig `mapstructure:"planner" yaml:"planner"`
	Digest  DigestConfig  `mapstructure:"digest" yaml:"digest"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/planhub/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "planhub", "config.yaml")
}

// DefaultDBPath returns the default SQLite database path.
func DefaultDBPath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), "planhub.db")
}

// PlanDir returns the directory where weekly plan snapshots are saved,
// a sibling of the database file.
func (c *AppConfig) PlanDir() string {
	dbPath := c.DBPath
	if dbPath == "" {
		dbPath = DefaultDBPath()
	}
	return filepath.Join(filepath.Dir(dbPath), "plans")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Planner: PlannerConfig{
			WeekdayHours:  8,
			SaturdayHours: 4,
			SundayHours:   2,
		},
		Digest: DigestConfig{
			SendHour: 8,
		},
		Display: DisplayConfig{
			Theme: "default",
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
	v.SetDefault("planner.weekday_hours", 8)
	v.SetDefault("planner.saturday_hours", 4)
	v.SetDefault("planner.sunday_hours", 2)
	v.SetDefault("digest.send_hour", 8)
	v.SetDefault("display.theme", "default")

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

	v.Set("user_id", cfg.UserID)
	v.Set("db_path", cfg.DBPath)
	v.Set("planner", cfg.Planner)
	v.Set("digest", cfg.Digest)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
