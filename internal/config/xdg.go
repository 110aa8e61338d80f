package config

import (
	"os"
	"path/filepath"
)

const appName = "vocatype"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	return xdgHome("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	return xdgHome("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgHome(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, fallback)
}

// DefaultDeckDir returns the directory holding per-language decks.
func DefaultDeckDir() string {
	return filepath.Join(XDGConfigHome(), appName, "decks")
}

// DefaultDeckPath builds the default deck path for a language.
func DefaultDeckPath(lang string) string {
	return filepath.Join(DefaultDeckDir(), lang+".tsv")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, appName+".db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}
