package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetFindfileHome returns the findfile home directory
// Priority order:
//   1. FINDFILE_HOME environment variable (if set)
//   2. ~/.findfile
// The directory is created if it doesn't exist
func GetFindfileHome() (string, error) {
	home := os.Getenv("FINDFILE_HOME")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get user home directory: %w", err)
		}
		home = filepath.Join(userHome, ".findfile")
	}

	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create findfile home directory: %w", err)
	}
	return home, nil
}

// GetCacheDBPath returns the SQLite snapshot database path
// An explicit path wins; otherwise: $FINDFILE_HOME/cache/snapshots.db
func (c *Config) GetCacheDBPath() (string, error) {
	if c.Cache.DBPath != "" {
		return c.Cache.DBPath, nil
	}

	home, err := GetFindfileHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "cache", "snapshots.db"), nil
}
