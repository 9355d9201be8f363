package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/revulabs/revu-cli/internal/analyzer"
)

func TestProgressPrinterLifecycle(t *testing.T) {
	printer := newProgressPrinter(0, "review")
	if printer.total != 1 {
		t.Fatalf("expected total to be clamped to 1, got %d", printer.total)
	}

	output := captureStdout(t, func() {
		printer.Start()
		printer.Observe(analyzer.Result{Status: analyzer.StatusOK}, 0.5)
		printer.Observe(analyzer.Result{Status: analyzer.StatusIssues}, 1.0)
		time.Sleep(350 * time.Millisecond) // allow ticker to tick at least once
		printer.Stop()
		time.Sleep(50 * time.Millisecond) // ensure loop goroutine exits
	})

	if !strings.Contains(output, "Progress: 2/2") {
		t.Fatalf("expected summary progress, got %q", output)
	}
	if !strings.Contains(output, "Clean:1") || !strings.Contains(output, "Flagged:1") {
		t.Fatalf("expected clean/flagged counts in output, got %q", output)
	}
	if !strings.Contains(output, "Avg:0.75s") {
		t.Fatalf("expected average duration in output, got %q", output)
	}
}

func TestProgressPrinterCountsNonOKAsFlagged(t *testing.T) {
	printer := newProgressPrinter(3, "review")

	output := captureStdout(t, func() {
		printer.Observe(analyzer.Result{Status: analyzer.StatusTimeout}, 0.2)
		printer.Observe(analyzer.Result{Status: analyzer.StatusUnavailable}, 0.0)
		printer.Observe(analyzer.Result{Status: analyzer.StatusOK}, 0.1)
		printer.Stop()
	})

	if !strings.Contains(output, "Clean:1") || !strings.Contains(output, "Flagged:2") {
		t.Fatalf("expected timeouts and missing tools flagged, got %q", output)
	}
}

func TestProgressPrinterStopIdempotent(t *testing.T) {
	printer := newProgressPrinter(3, "review")

	captureStdout(t, func() {
		printer.Start()
		printer.Observe(analyzer.Result{Status: analyzer.StatusOK}, 0.1)
		printer.Stop()
		printer.Stop() // second call must not panic
	})
}
