package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGetDataDir(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
	}

	dataDir, err := getDataDir()
	if err != nil {
		t.Fatalf("getDataDir() failed: %v", err)
	}

	if dataDir == "" {
		t.Error("expected non-empty data directory")
	}
	if !strings.Contains(dataDir, "revu-cli") {
		t.Errorf("expected data directory to contain 'revu-cli', got: %s", dataDir)
	}

	// Verify directory was created
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}
}

func TestGetDataDirHonorsXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_DATA_HOME applies to Linux only")
	}

	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)

	dataDir, err := getDataDir()
	if err != nil {
		t.Fatalf("getDataDir() failed: %v", err)
	}
	if dataDir != filepath.Join(xdg, "revu-cli") {
		t.Errorf("expected %s, got %s", filepath.Join(xdg, "revu-cli"), dataDir)
	}
}

func TestGetReviewsDir(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
	}

	reviewsDir, err := getReviewsDir()
	if err != nil {
		t.Fatalf("getReviewsDir() failed: %v", err)
	}

	if !strings.HasSuffix(reviewsDir, "reviews") {
		t.Errorf("expected path to end with reviews, got: %s", reviewsDir)
	}
	if _, err := os.Stat(reviewsDir); os.IsNotExist(err) {
		t.Errorf("reviews directory was not created: %s", reviewsDir)
	}
}

func TestGetTelemetryPath(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
	}

	path, err := getTelemetryPath()
	if err != nil {
		t.Fatalf("getTelemetryPath() failed: %v", err)
	}

	if !strings.HasSuffix(path, "telemetry.jsonl") {
		t.Errorf("expected path to end with telemetry.jsonl, got: %s", path)
	}

	// Parent directory must exist so appends succeed
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("parent directory does not exist: %s", dir)
	}
}
