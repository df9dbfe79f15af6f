// Package config loads application settings from environment variables and
// an optional config file via viper. Everything has a sensible local-first
// default; a fresh install needs no configuration at all.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// DatabasePath is the SQLite database file location.
	DatabasePath string `mapstructure:"database_path"`

	// HomeCurrency is the default currency for new subscriptions.
	HomeCurrency string `mapstructure:"home_currency"`

	// DefaultReminderDays is the reminder lead applied when a manual
	// subscription does not set its own.
	DefaultReminderDays int `mapstructure:"default_reminder_days"`

	// MinReadyDuration gates startup readiness together with the initial
	// load, whichever finishes last.
	MinReadyDuration time.Duration `mapstructure:"min_ready_duration"`

	// ReminderCheckSchedule is the cron expression for the reminder daemon's
	// due check.
	ReminderCheckSchedule string `mapstructure:"reminder_check_schedule"`

	Env string `mapstructure:"env"`
}

// Load reads configuration from SUBTRACK_* environment variables and, when
// present, from $XDG_CONFIG_HOME/subtrack/config.yaml.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database_path", defaultDatabasePath())
	v.SetDefault("home_currency", "INR")
	v.SetDefault("default_reminder_days", 1)
	v.SetDefault("min_ready_duration", 0*time.Second)
	v.SetDefault("reminder_check_schedule", "* * * * *")
	v.SetDefault("env", "development")

	v.SetEnvPrefix("SUBTRACK")
	v.AutomaticEnv()
	for _, key := range []string{
		"database_path", "home_currency", "default_reminder_days",
		"min_ready_duration", "reminder_check_schedule", "env",
	} {
		_ = v.BindEnv(key)
	}

	if dir, err := os.UserConfigDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(dir, "subtrack"))
		// A missing file is fine; only a malformed one is an error.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "subscriptions.db"
	}
	return filepath.Join(dir, "subtrack", "subscriptions.db")
}
