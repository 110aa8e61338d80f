// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Review   ReviewConfig   `toml:"review"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Lang       *string  `toml:"lang"`
	Words      *int     `toml:"words"`
	CapsPct    *float64 `toml:"caps"`
	PunctPct   *float64 `toml:"punct"`
	PunctSet   *string  `toml:"punct-set"`
	FocusWeak  *bool    `toml:"focus-weak"`
	WeakTop    *int     `toml:"weak-top"`
	WeakFactor *float64 `toml:"weak-factor"`
	WeakWindow *int     `toml:"weak-window"`
}

// ReviewConfig maps vocabulary review settings.
type ReviewConfig struct {
	UserID      *int64  `toml:"user-id"`
	Limit       *int    `toml:"limit"`
	RemindEvery *string `toml:"remind-every"`
}

// RemindInterval parses remind-every. It returns 0 when unset.
func (r ReviewConfig) RemindInterval() (time.Duration, error) {
	if r.RemindEvery == nil || *r.RemindEvery == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(*r.RemindEvery)
	if err != nil {
		return 0, fmt.Errorf("invalid review.remind-every %q: %w", *r.RemindEvery, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("review.remind-every must be positive, got %s", d)
	}
	return d, nil
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Addr           *string  `toml:"addr"`
	AllowedOrigins []string `toml:"allowed-origins"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
