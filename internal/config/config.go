// Package config loads and saves strive's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/strive/internal/engine"
)

const appName = "strive"

// Config holds all strive configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Defaults   DefaultsConfig   `toml:"defaults"`
	Policy     PolicyConfig     `toml:"policy"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath   string `toml:"db_path,omitempty"`
	LogLevel string `toml:"log_level"`
}

// DefaultsConfig seeds the goals of a fresh state.
type DefaultsConfig struct {
	TargetAmount float64 `toml:"target_amount"`
	TargetDays   int     `toml:"target_days"`
}

// PolicyConfig overrides the engine constants.
type PolicyConfig struct {
	BlockDays     int     `toml:"block_days"`
	MinDailyRate  float64 `toml:"min_daily_rate"`
	MaxFreezeDays int     `toml:"max_freeze_days"`
	DayCap        int     `toml:"day_cap"`
	PaceWarningK  float64 `toml:"pace_warning_k"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds settings for `strive serve`.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	PollIntervalSec int    `toml:"poll_interval_sec"`
	RolloverCron    string `toml:"rollover_cron"`
	EventsBuffer    int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	p := engine.DefaultPolicy()
	return Config{
		General: GeneralConfig{
			LogLevel: "warn",
		},
		Defaults: DefaultsConfig{
			TargetAmount: 500000,
			TargetDays:   30,
		},
		Policy: PolicyConfig{
			BlockDays:     p.BlockDays,
			MinDailyRate:  p.MinDailyRate,
			MaxFreezeDays: p.MaxFreezeDays,
			DayCap:        p.DayCap,
			PaceWarningK:  p.PaceWarningK,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8788",
			PollIntervalSec: 15,
			RolloverCron:    "0 0 * * *",
			EventsBuffer:    200,
		},
	}
}

// EnginePolicy converts the [policy] section into engine constants.
func (c Config) EnginePolicy() engine.Policy {
	p := engine.DefaultPolicy()
	p.BlockDays = c.Policy.BlockDays
	p.MinDailyRate = c.Policy.MinDailyRate
	p.MaxFreezeDays = c.Policy.MaxFreezeDays
	p.DayCap = c.Policy.DayCap
	p.PaceWarningK = c.Policy.PaceWarningK
	return p
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// DBPath returns the database path, preferring the configured one.
func (c Config) DBPath() string {
	if c.General.DBPath != "" {
		return c.General.DBPath
	}
	return filepath.Join(DataDir(), appName+".db")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("STRIVE_DB_PATH"); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv("STRIVE_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
	if v := os.Getenv("STRIVE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("STRIVE_POLL_INTERVAL_SEC"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("STRIVE_POLL_INTERVAL_SEC: invalid value %q", v)
		}
		cfg.Server.PollIntervalSec = n
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
