package review

import (
	"strings"
	"testing"
	"time"

	"github.com/revulabs/revu-cli/internal/analyzer"
)

func TestMergeKeepsDispatchOrder(t *testing.T) {
	results := []analyzer.Result{
		{Analyzer: "ruff", Findings: []analyzer.Finding{
			{Source: "ruff", Line: 9},
			{Source: "ruff", Line: 2},
		}},
		{Analyzer: "mypy", Findings: []analyzer.Finding{
			{Source: "mypy", Line: 1},
		}},
	}

	findings := merge(results)
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(findings))
	}

	// Ruff findings sort by line within the result, but still come before
	// mypy's even though mypy reports an earlier line.
	wantSources := []string{"ruff", "ruff", "mypy"}
	wantLines := []int{2, 9, 1}
	for i := range findings {
		if findings[i].Source != wantSources[i] || findings[i].Line != wantLines[i] {
			t.Errorf("position %d: got %s line %d, want %s line %d",
				i, findings[i].Source, findings[i].Line, wantSources[i], wantLines[i])
		}
	}
}

func TestMergeSortsByLineThenColumn(t *testing.T) {
	results := []analyzer.Result{
		{Analyzer: "ruff", Findings: []analyzer.Finding{
			{Source: "ruff", Line: 3, Column: 8},
			{Source: "ruff", Line: 3, Column: 1},
			{Source: "ruff", Line: 1, Column: 5},
		}},
	}

	findings := merge(results)
	want := [][2]int{{1, 5}, {3, 1}, {3, 8}}
	for i, w := range want {
		if findings[i].Line != w[0] || findings[i].Column != w[1] {
			t.Errorf("position %d: got %d:%d, want %d:%d",
				i, findings[i].Line, findings[i].Column, w[0], w[1])
		}
	}
}

func TestSummarize(t *testing.T) {
	results := []analyzer.Result{
		{Analyzer: "syntax", Status: analyzer.StatusOK},
		{Analyzer: "ruff", Status: analyzer.StatusIssues},
		{Analyzer: "bandit", Status: analyzer.StatusUnavailable},
	}
	findings := []analyzer.Finding{
		{Source: "ruff", Severity: ""},
		{Source: "ruff"},
		{Source: "mypy", Severity: "HIGH"},
	}

	s := summarize(results, findings, 1500*time.Millisecond)

	if s.TotalFindings != 3 {
		t.Errorf("expected 3 findings, got %d", s.TotalFindings)
	}
	if s.BySource["ruff"] != 2 || s.BySource["mypy"] != 1 {
		t.Errorf("unexpected BySource: %v", s.BySource)
	}
	if s.BySeverity["HIGH"] != 1 {
		t.Errorf("unexpected BySeverity: %v", s.BySeverity)
	}
	if len(s.Unavailable) != 1 || s.Unavailable[0] != "bandit" {
		t.Errorf("unexpected Unavailable: %v", s.Unavailable)
	}
	if s.Statuses["ruff"] != analyzer.StatusIssues {
		t.Errorf("unexpected status map: %v", s.Statuses)
	}
	if s.DurationSeconds < 1.4 || s.DurationSeconds > 1.6 {
		t.Errorf("unexpected duration: %f", s.DurationSeconds)
	}
}

func TestFindingsCSV(t *testing.T) {
	findings := []analyzer.Finding{
		{Source: "ruff", Rule: "F401", Category: "Lint/Style", Message: "os imported but unused", Line: 1, Column: 8, File: "<input>"},
		{Source: "black", Rule: "format", Category: "Formatting", Message: "File would be reformatted", File: "<input>"},
	}

	data, err := FindingsCSV(findings)
	if err != nil {
		t.Fatalf("FindingsCSV returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Source,Rule,Type,Message,Line,Column,File,Severity/Level" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "F401") || !strings.Contains(lines[1], "1,8") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	// Zero positions render as empty cells.
	if !strings.Contains(lines[2], "File would be reformatted,,,") {
		t.Errorf("expected empty line/column cells, got: %s", lines[2])
	}
}

func TestFindingsCSVEmpty(t *testing.T) {
	data, err := FindingsCSV(nil)
	if err != nil {
		t.Fatalf("FindingsCSV returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Errorf("expected header only, got %d lines", len(lines))
	}
}

func TestIntCell(t *testing.T) {
	if got := intCell(0); got != "" {
		t.Errorf("expected empty cell for zero, got %q", got)
	}
	if got := intCell(42); got != "42" {
		t.Errorf("expected 42, got %q", got)
	}
}
