package analyzer

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeAnalyzer returns a canned result after an optional delay.
type fakeAnalyzer struct {
	name   string
	delay  time.Duration
	result Result
}

func (f *fakeAnalyzer) Name() string { return f.name }

func (f *fakeAnalyzer) Analyze(ctx context.Context, snippet Snippet) Result {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return Result{Analyzer: f.name, Status: StatusTimeout}
		}
	}
	return f.result
}

func TestRunnerPreservesOrder(t *testing.T) {
	analyzers := []Analyzer{
		&fakeAnalyzer{name: "slow", delay: 50 * time.Millisecond, result: Result{Status: StatusOK}},
		&fakeAnalyzer{name: "fast", result: Result{Status: StatusIssues, Findings: []Finding{{Source: "fast"}}}},
		&fakeAnalyzer{name: "mid", delay: 10 * time.Millisecond, result: Result{Status: StatusOK}},
	}

	runner := &Runner{Concurrency: 3, RateLimit: 100, Timeout: time.Second}
	results := runner.Run(context.Background(), Snippet{Source: "x = 1"}, analyzers, nil)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	wantOrder := []string{"slow", "fast", "mid"}
	for i, want := range wantOrder {
		if results[i].Analyzer != want {
			t.Errorf("result %d: expected %s, got %s", i, want, results[i].Analyzer)
		}
	}
	if results[1].Status != StatusIssues {
		t.Errorf("expected issues status for fast, got %s", results[1].Status)
	}
}

func TestRunnerFillsResultMetadata(t *testing.T) {
	analyzers := []Analyzer{
		&fakeAnalyzer{name: "probe", result: Result{Status: StatusOK}},
	}

	runner := &Runner{Concurrency: 1, RateLimit: 10, Timeout: time.Second}
	results := runner.Run(context.Background(), Snippet{Source: "pass"}, analyzers, nil)

	res := results[0]
	if res.Analyzer != "probe" {
		t.Errorf("expected analyzer name filled in, got %q", res.Analyzer)
	}
	if res.CheckedAt.IsZero() {
		t.Error("expected CheckedAt to be set")
	}
	if res.DurationMS < 0 {
		t.Errorf("expected non-negative duration, got %f", res.DurationMS)
	}
}

func TestRunnerInvokesObserver(t *testing.T) {
	analyzers := []Analyzer{
		&fakeAnalyzer{name: "a", result: Result{Status: StatusOK}},
		&fakeAnalyzer{name: "b", result: Result{Status: StatusIssues}},
	}

	var mu sync.Mutex
	seen := make(map[string]string)
	observe := func(name string, result Result, duration float64) error {
		mu.Lock()
		defer mu.Unlock()
		seen[name] = result.Status
		return nil
	}

	runner := &Runner{Concurrency: 2, RateLimit: 100, Timeout: time.Second}
	runner.Run(context.Background(), Snippet{Source: "pass"}, analyzers, observe)

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("expected observer called twice, got %d", len(seen))
	}
	if seen["a"] != StatusOK || seen["b"] != StatusIssues {
		t.Errorf("unexpected observations: %v", seen)
	}
}

func TestRunnerDefaultsConcurrency(t *testing.T) {
	analyzers := []Analyzer{
		&fakeAnalyzer{name: "only", result: Result{Status: StatusOK}},
	}

	// Zero values must not deadlock or panic.
	runner := &Runner{Timeout: time.Second}
	results := runner.Run(context.Background(), Snippet{Source: "pass"}, analyzers, nil)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestRunnerTimeoutContext(t *testing.T) {
	analyzers := []Analyzer{
		&fakeAnalyzer{name: "stuck", delay: time.Second, result: Result{Status: StatusOK}},
	}

	runner := &Runner{Concurrency: 1, RateLimit: 100, Timeout: 20 * time.Millisecond}
	start := time.Now()
	results := runner.Run(context.Background(), Snippet{Source: "pass"}, analyzers, nil)
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("runner did not honor timeout, took %v", elapsed)
	}
	if results[0].Status != StatusTimeout {
		t.Errorf("expected timeout status, got %s", results[0].Status)
	}
}
