package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	sharederrors "github.com/revulabs/revu-cli/internal/shared/errors"
)

func TestIsSupportedFormat(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{"table", true},
		{"json", true},
		{"csv", true},
		{"yaml", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isSupportedFormat(tt.format); got != tt.want {
			t.Errorf("isSupportedFormat(%q) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestDescribeReviewError(t *testing.T) {
	err := describeReviewError(sharederrors.ErrEmptySnippet)
	if !strings.Contains(err.Error(), "nothing to review") {
		t.Errorf("unexpected message for empty snippet: %s", err.Error())
	}

	err = describeReviewError(sharederrors.ErrSnippetTooLarge)
	if !strings.Contains(err.Error(), "size limit") {
		t.Errorf("unexpected message for oversized snippet: %s", err.Error())
	}
	if !errors.Is(err, sharederrors.ErrSnippetTooLarge) {
		t.Error("expected wrapped error to match ErrSnippetTooLarge")
	}

	original := errors.New("boom")
	if got := describeReviewError(original); got != original {
		t.Errorf("expected unknown errors to pass through, got %v", got)
	}
}

func TestReadReviewInputFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snippet.py")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("failed to write snippet: %v", err)
	}

	code, filename, err := readReviewInput([]string{path})
	if err != nil {
		t.Fatalf("readReviewInput returned error: %v", err)
	}
	if string(code) != "x = 1\n" {
		t.Errorf("unexpected code: %q", code)
	}
	if filename != "snippet.py" {
		t.Errorf("expected base filename, got %s", filename)
	}
}

func TestReadReviewInputMissingFile(t *testing.T) {
	_, _, err := readReviewInput([]string{"/does/not/exist.py"})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPrintReviewJSON(t *testing.T) {
	rev := sampleSavedReview()

	output := captureStdout(t, func() {
		if err := printReview(rev, "json"); err != nil {
			t.Errorf("printReview returned error: %v", err)
		}
	})

	if !strings.Contains(output, `"id": "rev_sample"`) {
		t.Errorf("expected review ID in JSON output, got %q", output)
	}
	if !strings.Contains(output, `"total_findings": 1`) {
		t.Errorf("expected summary in JSON output, got %q", output)
	}
}

func TestPrintReviewCSV(t *testing.T) {
	rev := sampleSavedReview()

	output := captureStdout(t, func() {
		if err := printReview(rev, "csv"); err != nil {
			t.Errorf("printReview returned error: %v", err)
		}
	})

	if !strings.HasPrefix(output, "Source,Rule,Type,Message,Line,Column,File,Severity/Level") {
		t.Errorf("expected CSV header, got %q", output)
	}
	if !strings.Contains(output, "F401") {
		t.Errorf("expected finding row in CSV output, got %q", output)
	}
}

func TestPrintReviewTable(t *testing.T) {
	originalColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = originalColor
	})

	rev := sampleSavedReview()
	rev.Suggestions = "Remove the unused import."

	output := captureStdout(t, func() {
		if err := printReview(rev, "table"); err != nil {
			t.Errorf("printReview returned error: %v", err)
		}
	})

	for _, want := range []string{
		"rev_sample",
		"app.py",
		"syntax",
		"unused import",
		"Advisor suggestions",
		"1 finding(s) across 3 analyzer(s)",
		"1 tool(s) unavailable: mypy",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected table output to contain %q, got %q", want, output)
		}
	}
}
