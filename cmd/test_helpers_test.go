package cmd

import (
	"io"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/revulabs/revu-cli/internal/analyzer"
	"github.com/revulabs/revu-cli/internal/review"
)

// captureStdout redirects os.Stdout while fn runs and returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	outCh := make(chan string, 1)
	go func() {
		data, _ := io.ReadAll(r)
		outCh <- string(data)
	}()

	fn()

	os.Stdout = original
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close pipe writer: %v", err)
	}
	return <-outCh
}

// setupTestAppContext points the global context at a temp data directory.
func setupTestAppContext(t *testing.T) *AppContext {
	t.Helper()

	original := globalAppContext
	appCtx := &AppContext{
		Logger:   zap.NewNop().Sugar(),
		Reviewer: "test-reviewer",
		DataDir:  t.TempDir(),
	}
	globalAppContext = appCtx
	t.Cleanup(func() {
		globalAppContext = original
	})
	return appCtx
}

func sampleSavedReview() *review.Review {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &review.Review{
		ID:          "rev_sample",
		CreatedAt:   created,
		CompletedAt: created.Add(1500 * time.Millisecond),
		Reviewer:    "test-reviewer",
		Filename:    "app.py",
		Language:    "python",
		Results: []analyzer.Result{
			{Analyzer: "syntax", Status: analyzer.StatusOK, DurationMS: 120},
			{Analyzer: "ruff", Status: analyzer.StatusIssues, DurationMS: 340, Findings: []analyzer.Finding{
				{Source: "ruff", Rule: "F401", Category: "Lint", Message: "unused import", Line: 1, Column: 8, File: "<input>", Severity: "warning"},
			}},
			{Analyzer: "mypy", Status: analyzer.StatusUnavailable, DurationMS: 2, Error: "mypy is not installed"},
		},
		Findings: []analyzer.Finding{
			{Source: "ruff", Rule: "F401", Category: "Lint", Message: "unused import", Line: 1, Column: 8, File: "<input>", Severity: "warning"},
		},
		Summary: review.Summary{
			TotalFindings:   1,
			BySource:        map[string]int{"ruff": 1},
			BySeverity:      map[string]int{"warning": 1},
			Statuses:        map[string]string{"syntax": analyzer.StatusOK, "ruff": analyzer.StatusIssues, "mypy": analyzer.StatusUnavailable},
			Unavailable:     []string{"mypy"},
			DurationSeconds: 1.5,
		},
	}
}
