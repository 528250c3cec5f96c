// Package config loads and validates bac settings.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appDir = "bac"

// ExpandPath resolves a leading ~ and $VAR references in path. An
// unresolvable home directory leaves the ~ in place.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}

// DataDir is where the SQLite cache lives: $XDG_DATA_HOME/bac, falling
// back to ~/.local/share/bac.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", ".local/share")
}

// ConfigDir is searched for config.yaml: $XDG_CONFIG_HOME/bac, falling
// back to ~/.config/bac.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDatabasePath is the cache file used when database.path is unset.
func DefaultDatabasePath() string {
	return filepath.Join(DataDir(), "bac.db")
}

// Relative XDG values are ignored, as the base directory spec requires.
func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); filepath.IsAbs(base) {
		return filepath.Join(base, appDir)
	}
	return filepath.Join(ExpandPath("~"), fallback, appDir)
}
