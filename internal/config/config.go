// Package config resolves client configuration from defaults, an
// optional TOML file, and environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/streak"
)

// Config is the fully resolved client configuration.
type Config struct {
	BaseURL string
	Token   string
	Tier    streak.Tier

	Timings  progress.Timings
	Reminder streak.ReminderConfig
}

// FileConfig is the TOML configuration file. Pointer fields distinguish
// "unset" from zero values.
type FileConfig struct {
	API       APIConfig       `toml:"api"`
	Streak    StreakConfig    `toml:"streak"`
	Polling   PollingConfig   `toml:"polling"`
	Reminders RemindersConfig `toml:"reminders"`
}

// APIConfig maps the [api] section.
type APIConfig struct {
	BaseURL *string `toml:"base_url"`
	Token   *string `toml:"token"`
}

// StreakConfig maps the [streak] section.
type StreakConfig struct {
	Tier *string `toml:"tier"`
}

// PollingConfig maps the [polling] section. Values are milliseconds.
type PollingConfig struct {
	RealtimeTTLMs      *int `toml:"realtime_ttl_ms"`
	DashboardTTLMs     *int `toml:"dashboard_ttl_ms"`
	InitialPollDelayMs *int `toml:"initial_delay_ms"`
	PollIntervalMs     *int `toml:"interval_ms"`
	MaxPollDurationMs  *int `toml:"max_duration_ms"`
}

// RemindersConfig maps the [reminders] section (UTC hours).
type RemindersConfig struct {
	StartHour *int `toml:"start_hour"`
	EndHour   *int `toml:"end_hour"`
}

// DefaultPath returns the default config file location:
// $XDG_CONFIG_HOME/lingua/config.toml.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return filepath.Join(".", "config.toml")
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "lingua", "config.toml")
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Resolve layers file values over defaults and environment variables over
// both.
func Resolve(file FileConfig) Config {
	cfg := Config{
		Tier:     streak.TierFree,
		Timings:  progress.DefaultTimings(),
		Reminder: streak.DefaultReminderConfig(),
	}

	if file.API.BaseURL != nil {
		cfg.BaseURL = *file.API.BaseURL
	}
	if file.API.Token != nil {
		cfg.Token = *file.API.Token
	}
	if file.Streak.Tier != nil {
		cfg.Tier = streak.Tier(*file.Streak.Tier)
	}

	applyMs := func(dst *time.Duration, src *int) {
		if src != nil && *src > 0 {
			*dst = time.Duration(*src) * time.Millisecond
		}
	}
	applyMs(&cfg.Timings.RealtimeTTL, file.Polling.RealtimeTTLMs)
	applyMs(&cfg.Timings.DashboardTTL, file.Polling.DashboardTTLMs)
	applyMs(&cfg.Timings.InitialPollDelay, file.Polling.InitialPollDelayMs)
	applyMs(&cfg.Timings.PollInterval, file.Polling.PollIntervalMs)
	applyMs(&cfg.Timings.MaxPollDuration, file.Polling.MaxPollDurationMs)

	if file.Reminders.StartHour != nil {
		cfg.Reminder.StartHour = *file.Reminders.StartHour
	}
	if file.Reminders.EndHour != nil {
		cfg.Reminder.EndHour = *file.Reminders.EndHour
	}

	if v := os.Getenv("LINGUA_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LINGUA_API_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("LINGUA_TIER"); v != "" {
		cfg.Tier = streak.Tier(v)
	}

	return cfg
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	if !c.Tier.Valid() {
		return fmt.Errorf("unknown tier: %q (want free, pro, or premium)", c.Tier)
	}
	if c.Reminder.StartHour < 0 || c.Reminder.StartHour > 23 ||
		c.Reminder.EndHour < 0 || c.Reminder.EndHour > 23 {
		return fmt.Errorf("reminder hours must be within 0-23")
	}
	return nil
}
