package review

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/revulabs/revu-cli/internal/advisor"
	"github.com/revulabs/revu-cli/internal/analyzer"
	"github.com/revulabs/revu-cli/internal/input"
	"github.com/revulabs/revu-cli/internal/sandbox"
)

// Request carries one submission through the service.
type Request struct {
	Code     []byte
	Filename string
	Language string
	Reviewer string

	Smoke            bool
	WarningsAsErrors bool
	Advise           bool

	// Observe, when set, is invoked after each analyzer completes. The CLI
	// uses it to drive the progress line and telemetry.
	Observe analyzer.ObserveFunc
}

// Service wires the dispatcher, sandbox and advisor together.
type Service struct {
	Registry *analyzer.Registry
	Runner   *analyzer.Runner
	Sandbox  *sandbox.Runner
	Advisor  *advisor.Advisor // nil when no API key is configured
	Logger   *zap.SugaredLogger
}

// Review runs the full pipeline for one submission and returns the merged
// report. Individual tool failures never fail the review; only invalid
// input does.
func (s *Service) Review(ctx context.Context, req Request) (*Review, error) {
	start := time.Now()

	snippet, err := input.Collect(req.Code, req.Filename, req.Language)
	if err != nil {
		return nil, err
	}

	rev := &Review{
		ID:        uuid.NewString(),
		CreatedAt: start.UTC(),
		Reviewer:  req.Reviewer,
		Filename:  req.Filename,
		Language:  snippet.Language,
		Smoke:     req.Smoke,
	}

	if snippet.Language != input.LangPython {
		// The tool chain is Python-only; report that instead of running
		// seven tools that would all reject the file.
		rev.Results = []analyzer.Result{{
			Analyzer:  "language",
			Status:    analyzer.StatusOK,
			CheckedAt: time.Now().UTC(),
			Notes:     "snippet does not look like Python; analyzers skipped",
		}}
		rev.CompletedAt = time.Now().UTC()
		rev.Summary = summarize(rev.Results, nil, time.Since(start))
		return rev, nil
	}

	results := s.Runner.Run(ctx, snippet, s.Registry.Analyzers(), req.Observe)

	if req.Smoke && s.Sandbox != nil {
		runner := *s.Sandbox
		runner.Options.WarningsAsErrors = req.WarningsAsErrors
		smokeRes := runner.Run(ctx, snippet)
		results = append(results, smokeRes)
		if req.Observe != nil {
			_ = req.Observe(smokeRes.Analyzer, smokeRes, smokeRes.DurationMS/1000)
		}
	}

	findings := merge(results)

	if req.Advise && s.Advisor != nil {
		advRes, err := s.Advisor.Advise(ctx, snippet, findings)
		if err != nil && s.Logger != nil {
			s.Logger.Warnf("advisor failed: %v", err)
		}
		rev.Advised = err == nil
		rev.Suggestions = advRes.Notes
		results = append(results, advRes)
	}

	rev.Results = results
	rev.Findings = findings
	rev.CompletedAt = time.Now().UTC()
	rev.Summary = summarize(results, findings, time.Since(start))
	return rev, nil
}
