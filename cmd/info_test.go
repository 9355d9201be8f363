package cmd

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func TestInfoCommand(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
	}
	setupTestAppContext(t)

	var buf bytes.Buffer
	infoCmd.SetOut(&buf)
	infoCmd.SetErr(&buf)

	if err := infoCmd.RunE(infoCmd, []string{}); err != nil {
		t.Fatalf("info command failed: %v", err)
	}

	output := buf.String()

	expectedSections := []string{
		"revu System Information",
		"Platform:",
		"Reviewer:",
		"Python:",
		"Data Locations:",
		"Data Directory:",
		"Reviews Directory:",
		"Telemetry Log:",
		"Configuration File:",
	}

	for _, section := range expectedSections {
		if !strings.Contains(output, section) {
			t.Errorf("expected output to contain %q, got:\n%s", section, output)
		}
	}

	expectedPlatform := runtime.GOOS + "/" + runtime.GOARCH
	if !strings.Contains(output, expectedPlatform) {
		t.Errorf("expected platform %q in output, got:\n%s", expectedPlatform, output)
	}
	if !strings.Contains(output, "test-reviewer") {
		t.Errorf("expected reviewer from context in output, got:\n%s", output)
	}
}
