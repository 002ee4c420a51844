// Package config resolves listen address and filesystem paths for the
// analytics service.
package config

import (
	"os"
	"path/filepath"
)

// Config holds the listen address and the base data directory.
type Config struct {
	Addr    string
	DataDir string
}

// Default returns a Config rooted at ~/.panion, listening on :5000.
// PANION_ADDR and PANION_DATA_DIR override either value.
func Default() Config {
	cfg := Config{
		Addr:    ":5000",
		DataDir: filepath.Join(os.Getenv("HOME"), ".panion"),
	}
	if addr := os.Getenv("PANION_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if dir := os.Getenv("PANION_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	return cfg
}

// DBPath returns the DuckDB database file path.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "panion.duckdb")
}

// AuthDir returns the per-session directory for live connection state.
func (c Config) AuthDir(sessionID string) string {
	return filepath.Join(c.DataDir, "auth", sessionID)
}
