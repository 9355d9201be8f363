package analyzer

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Result statuses. Every analyzer run ends in exactly one of these.
const (
	StatusOK          = "ok"
	StatusIssues      = "issues"
	StatusUnavailable = "unavailable"
	StatusTimeout     = "timeout"
	StatusError       = "error"
)

// Finding is one normalized row reported by an analyzer.
type Finding struct {
	Source   string `json:"source"`
	Rule     string `json:"rule,omitempty"`
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	File     string `json:"file,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// Result represents the outcome of a single analyzer over one snippet.
type Result struct {
	Analyzer   string    `json:"analyzer"`
	Status     string    `json:"status"`
	CheckedAt  time.Time `json:"checked_at"`
	DurationMS float64   `json:"duration_ms,omitempty"`
	Findings   []Finding `json:"findings,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Snippet is the normalized input every analyzer receives.
type Snippet struct {
	Source   string
	Language string
	Filename string
}

// Analyzer is the interface that all tool integrations must satisfy.
type Analyzer interface {
	// Analyze runs the tool against the snippet and reports its findings.
	Analyze(ctx context.Context, snippet Snippet) Result

	// Name returns the short name of this analyzer (e.g. "ruff", "mypy").
	Name() string
}

// ObserveFunc is a callback invoked after each analyzer completes.
type ObserveFunc func(name string, result Result, duration float64) error

// Runner orchestrates the execution of analyzers with concurrency and rate limiting.
// The tools are independent of each other, so they fan out over a worker pool;
// results come back in registry order regardless of completion order.
type Runner struct {
	Concurrency int           // Maximum number of concurrent analyzers
	RateLimit   int           // Tool launches per second (global)
	Timeout     time.Duration // Timeout for each analyzer
}

// Run executes every analyzer against the snippet using a worker pool.
func (r *Runner) Run(ctx context.Context, snippet Snippet, analyzers []Analyzer, observe ObserveFunc) []Result {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	rps := r.RateLimit
	if rps <= 0 {
		rps = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), rps)

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	results := make([]Result, len(analyzers))

	for i, a := range analyzers {
		wg.Add(1)
		go func(idx int, a Analyzer) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			_ = limiter.Wait(ctx)

			start := time.Now()

			runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
			defer cancel()

			result := a.Analyze(runCtx, snippet)
			if result.Analyzer == "" {
				result.Analyzer = a.Name()
			}
			if result.CheckedAt.IsZero() {
				result.CheckedAt = start.UTC()
			}

			duration := time.Since(start).Seconds()
			result.DurationMS = duration * 1000

			if observe != nil {
				_ = observe(a.Name(), result, duration)
			}

			results[idx] = result
		}(i, a)
	}

	wg.Wait()
	return results
}

// resolveStatus derives a Result status from the parsed findings.
func resolveStatus(findings []Finding) string {
	if len(findings) > 0 {
		return StatusIssues
	}
	return StatusOK
}
