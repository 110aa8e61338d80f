package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDBPath   = "VOCATYPE_DB_PATH"
	EnvLogLevel = "VOCATYPE_LOG_LEVEL"
	EnvAddr     = "VOCATYPE_ADDR"
)

// DefaultAddr is the listen address for the HTTP boundary.
const DefaultAddr = "127.0.0.1:8787"

// Env holds settings that come from the process environment.
type Env struct {
	DBPath   string
	LogLevel string
	Addr     string
}

// LoadEnv reads .env files (default ".env") and the process environment.
// Missing files are skipped; unreadable or malformed ones are an error.
// Variables already set in the process are never overridden.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return Env{
		DBPath:   envOr(EnvDBPath, DefaultDBPath()),
		LogLevel: envOr(EnvLogLevel, "info"),
		Addr:     envOr(EnvAddr, DefaultAddr),
	}, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
