// Package storage archives games, new-game settings and results in BadgerDB.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "minichess"

// HomeEnv overrides the platform data directory when set.
const HomeEnv = "MINICHESS_HOME"

// GetDataDir returns the directory minichess keeps its files in, creating it
// if needed. $MINICHESS_HOME wins over the per-user platform location.
func GetDataDir() (string, error) {
	dir := os.Getenv(HomeEnv)
	if dir == "" {
		base, err := userDataBase()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, appName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// userDataBase is the per-user application data root of the host OS.
func userDataBase() (string, error) {
	var env string
	var fallback []string
	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}

	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// GetDatabaseDir returns the directory holding the BadgerDB game archive.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	dbDir := filepath.Join(dataDir, "archive")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return dbDir, nil
}
