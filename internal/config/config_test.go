package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.Practice.Lang != nil || cfg.Review.UserID != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[practice]
lang = "de"
words = 40
focus-weak = true

[review]
user-id = 3
limit = 15
remind-every = "2h"

[server]
addr = ":9000"
allowed-origins = ["http://localhost:5173"]

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if *cfg.Practice.Lang != "de" || *cfg.Practice.Words != 40 || !*cfg.Practice.FocusWeak {
		t.Fatalf("unexpected practice config: %+v", cfg.Practice)
	}
	if cfg.Practice.CapsPct != nil {
		t.Fatalf("unset keys must stay nil")
	}
	if *cfg.Review.UserID != 3 || *cfg.Review.Limit != 15 {
		t.Fatalf("unexpected review config: %+v", cfg.Review)
	}
	every, err := cfg.Review.RemindInterval()
	if err != nil || every != 2*time.Hour {
		t.Fatalf("expected 2h, got %v (%v)", every, err)
	}
	if *cfg.Server.Addr != ":9000" || len(cfg.Server.AllowedOrigins) != 1 {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level %q", *cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nspeed = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestRemindIntervalValidation(t *testing.T) {
	bad := "-5m"
	if _, err := (ReviewConfig{RemindEvery: &bad}).RemindInterval(); err == nil {
		t.Fatalf("expected error for negative interval")
	}
	junk := "often"
	if _, err := (ReviewConfig{RemindEvery: &junk}).RemindInterval(); err == nil {
		t.Fatalf("expected parse error")
	}
	if d, err := (ReviewConfig{}).RemindInterval(); err != nil || d != 0 {
		t.Fatalf("expected zero for unset, got %v %v", d, err)
	}
}

func TestXDGPaths(t *testing.T) {
	cfgHome := t.TempDir()
	dataHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_DATA_HOME", dataHome)

	if got := DefaultConfigPath(); got != filepath.Join(cfgHome, "vocatype", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDeckPath("en"); got != filepath.Join(cfgHome, "vocatype", "decks", "en.tsv") {
		t.Fatalf("unexpected deck path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join(dataHome, "vocatype", "vocatype.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("VOCATYPE_LOG_LEVEL=debug\nVOCATYPE_ADDR=:7000\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("XDG_DATA_HOME", dir)
	for _, key := range []string{EnvDBPath, EnvLogLevel} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
	t.Setenv(EnvAddr, ":6000")

	env, err := LoadEnv(filepath.Join(dir, "missing.env"), envFile)
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if env.LogLevel != "debug" {
		t.Fatalf("expected level from .env, got %q", env.LogLevel)
	}
	if env.Addr != ":6000" {
		t.Fatalf("process env must win over .env, got %q", env.Addr)
	}
	if env.DBPath != filepath.Join(dir, "vocatype", "vocatype.db") {
		t.Fatalf("unexpected default db path %q", env.DBPath)
	}
}

func TestLoadEnvMalformedFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("VOCATYPE_ADDR=\":7000\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	if _, err := LoadEnv(envFile); err == nil {
		t.Fatalf("expected error for malformed .env")
	}
}
