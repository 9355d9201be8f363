package cmd

import (
	"bufio"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/revulabs/revu-cli/internal/analyzer"
)

func TestRecordTelemetryWritesMetrics(t *testing.T) {
	appCtx := setupTestAppContext(t)
	rev := sampleSavedReview()

	if err := recordTelemetry(appCtx, rev, 3*time.Second); err != nil {
		t.Fatalf("recordTelemetry returned error: %v", err)
	}

	path := filepath.Join(appCtx.DataDir, "telemetry.jsonl")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open telemetry file: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatalf("expected telemetry record, file empty")
	}

	var rec telemetryRecord
	if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
		t.Fatalf("failed to unmarshal record: %v", err)
	}

	if rec.Command != "review" {
		t.Errorf("expected command review, got %s", rec.Command)
	}
	if rec.ReviewID != "rev_sample" {
		t.Errorf("expected review_id rev_sample, got %s", rec.ReviewID)
	}
	if rec.AnalyzerCount != 3 {
		t.Errorf("expected 3 analyzers, got %d", rec.AnalyzerCount)
	}
	if rec.CleanCount != 1 || rec.FlaggedCount != 1 || rec.UnavailableCount != 1 {
		t.Errorf("unexpected counts: %+v", rec)
	}
	if rec.FindingCount != 1 {
		t.Errorf("expected 1 finding, got %d", rec.FindingCount)
	}

	expectedRate := (1.0 / 3.0) * 100
	if math.Abs(rec.CleanRate-expectedRate) > 0.0001 {
		t.Errorf("expected clean rate %.6f, got %.6f", expectedRate, rec.CleanRate)
	}
	if rec.DurationSeconds != 3 {
		t.Errorf("expected duration 3s, got %f", rec.DurationSeconds)
	}
	if math.Abs(rec.AvgDurationPer-1.0) > 0.0001 {
		t.Errorf("expected avg duration 1s, got %f", rec.AvgDurationPer)
	}
}

func TestRecordTelemetryAppends(t *testing.T) {
	appCtx := setupTestAppContext(t)
	rev := sampleSavedReview()

	if err := recordTelemetry(appCtx, rev, time.Second); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	if err := recordTelemetry(appCtx, rev, time.Second); err != nil {
		t.Fatalf("second record failed: %v", err)
	}

	f, err := os.Open(filepath.Join(appCtx.DataDir, "telemetry.jsonl"))
	if err != nil {
		t.Fatalf("failed to open telemetry file: %v", err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 records, got %d", lines)
	}
}

func TestSummarizeStatuses(t *testing.T) {
	results := []analyzer.Result{
		{Status: analyzer.StatusOK},
		{Status: analyzer.StatusIssues},
		{Status: analyzer.StatusUnavailable},
		{Status: analyzer.StatusError},
		{Status: analyzer.StatusOK},
	}

	clean, flagged, unavailable := summarizeStatuses(results)
	if clean != 2 {
		t.Errorf("expected 2 clean, got %d", clean)
	}
	if flagged != 2 {
		t.Errorf("expected 2 flagged, got %d", flagged)
	}
	if unavailable != 1 {
		t.Errorf("expected 1 unavailable, got %d", unavailable)
	}
}
