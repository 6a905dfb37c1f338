package config

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the global docwright configuration directory,
// respecting XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "docwright")
	}
	return filepath.Join(homeDir(), ".config", "docwright")
}

// DataDir returns the directory for docwright state such as the usage
// database, respecting XDG_DATA_HOME.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "docwright")
	}
	return filepath.Join(homeDir(), ".local", "share", "docwright")
}

// DatabasePath returns the default path of the usage database.
func DatabasePath() string {
	return filepath.Join(DataDir(), "docwright.db")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
