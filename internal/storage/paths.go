// Package storage keeps preferences, statistics and saved games in a
// BadgerDB database under the platform data directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName = "chessview"

	// HomeEnv names a directory that replaces the platform data directory.
	HomeEnv = "CHESSVIEW_HOME"
)

// GetDataDir returns the application data directory, creating it:
// $CHESSVIEW_HOME if set, otherwise
//   - macOS: ~/Library/Application Support/chessview
//   - Linux: $XDG_DATA_HOME/chessview or ~/.local/share/chessview
//   - Windows: %APPDATA%/chessview
func GetDataDir() (string, error) {
	dir := os.Getenv(HomeEnv)
	if dir == "" {
		base, err := platformDataDir()
		if err != nil {
			return "", fmt.Errorf("locate data directory: %w", err)
		}
		dir = filepath.Join(base, appName)
	}
	return ensureDir(dir)
}

// GetDatabaseDir returns the directory holding the database files.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dataDir, "db"))
}

func platformDataDir() (string, error) {
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
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}
