package cmd

import (
	"testing"

	"github.com/fatih/color"
)

func TestFormatStatusWithColor(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})

	tests := []struct {
		name   string
		status string
		want   string
	}{
		{name: "clean", status: "ok", want: "ok"},
		{name: "available synonym", status: "available", want: "available"},
		{name: "issues", status: "issues", want: "issues"},
		{name: "timeout", status: "timeout", want: "timeout"},
		{name: "unavailable", status: "unavailable", want: "unavailable"},
		{name: "unknown", status: "pending", want: "pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatStatusWithColor(tt.status); got != tt.want {
				t.Fatalf("formatStatusWithColor(%q) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestFormatSeverityWithColor(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})

	tests := []struct {
		severity string
		want     string
	}{
		{"HIGH", "HIGH"},
		{"error", "error"},
		{"medium", "medium"},
		{"warning", "warning"},
		{"note", "note"},
		{"custom", "custom"},
	}

	for _, tt := range tests {
		if got := formatSeverityWithColor(tt.severity); got != tt.want {
			t.Errorf("formatSeverityWithColor(%q) = %q, want %q", tt.severity, got, tt.want)
		}
	}
}
