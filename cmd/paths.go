package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// getDataDir returns the appropriate data directory for the current OS
// following XDG Base Directory specification on Linux/Unix
func getDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %LOCALAPPDATA%\revu-cli
		baseDir = os.Getenv("LOCALAPPDATA")
		if baseDir == "" {
			baseDir = os.Getenv("APPDATA")
		}
		if baseDir == "" {
			return "", fmt.Errorf("could not determine Windows data directory")
		}
		baseDir = filepath.Join(baseDir, "revu-cli")

	case "darwin":
		// macOS: ~/Library/Application Support/revu-cli
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support", "revu-cli")

	default:
		// Linux/Unix: $XDG_DATA_HOME/revu-cli > ~/.local/share/revu-cli
		xdgDataHome := os.Getenv("XDG_DATA_HOME")
		if xdgDataHome != "" {
			baseDir = filepath.Join(xdgDataHome, "revu-cli")
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("could not determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".local", "share", "revu-cli")
		}
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return baseDir, nil
}

// getReviewsDir returns the path to the saved-reviews directory
func getReviewsDir() (string, error) {
	dataDir, err := getDataDir()
	if err != nil {
		return "", err
	}

	reviewsDir := filepath.Join(dataDir, "reviews")

	if err := os.MkdirAll(reviewsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reviews directory: %w", err)
	}

	return reviewsDir, nil
}

// getTelemetryPath returns the path to the telemetry log file
func getTelemetryPath() (string, error) {
	dataDir, err := getDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "telemetry.jsonl"), nil
}
