// Package config loads butce settings from a TOML file with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all butce configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Budget     BudgetConfig     `toml:"budget"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir       string `toml:"data_dir,omitempty"`
	DefaultMonths int    `toml:"default_months"`
	KeepBackups   int    `toml:"keep_backups"`
	LogLevel      string `toml:"log_level,omitempty"`
}

// BudgetConfig seeds a brand-new ledger.
type BudgetConfig struct {
	DefaultIncome   *float64 `toml:"default_income,omitempty"`
	DefaultYKIncome *float64 `toml:"default_yk_income,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds settings for the background service.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	Schedule     string `toml:"schedule"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultMonths: 6,
			KeepBackups:   50,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			Schedule:     "@every 1m",
			EventsBuffer: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "butce")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "butce")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist, then
// applies environment overrides. A .env file in the working directory is
// honored when present.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	_ = godotenv.Load()
	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays BUTCE_* variables and LOG_LEVEL on cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("BUTCE_DATA_DIR"); v != "" {
		cfg.General.DataDir = v
	}
	if v := os.Getenv("BUTCE_DAEMON_ADDR"); v != "" {
		cfg.Daemon.Addr = v
	}
	if v := os.Getenv("BUTCE_DAEMON_SCHEDULE"); v != "" {
		cfg.Daemon.Schedule = v
	}
	if v := os.Getenv("BUTCE_DEFAULT_MONTHS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.General.DefaultMonths = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Seed returns the incomes a new ledger starts with.
func (b BudgetConfig) Seed() (income, ykIncome decimal.Decimal) {
	income, ykIncome = decimal.Zero, decimal.Zero
	if b.DefaultIncome != nil {
		income = decimal.NewFromFloat(*b.DefaultIncome)
	}
	if b.DefaultYKIncome != nil {
		ykIncome = decimal.NewFromFloat(*b.DefaultYKIncome)
	}
	return income, ykIncome
}
