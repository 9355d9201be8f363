// Package review orchestrates one submission through the analyzer
// dispatcher, the optional runtime sandbox, and the optional AI advisor,
// and merges everything into a single ordered report.
package review

import (
	"sort"
	"time"

	"github.com/revulabs/revu-cli/internal/analyzer"
)

// Review is the merged report for one submitted snippet.
type Review struct {
	ID          string            `json:"id"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt time.Time         `json:"completed_at"`
	Reviewer    string            `json:"reviewer,omitempty"`
	Filename    string            `json:"filename,omitempty"`
	Language    string            `json:"language"`
	Smoke       bool              `json:"smoke"`
	Advised     bool              `json:"advised"`
	Results     []analyzer.Result `json:"results"`
	Findings    []analyzer.Finding `json:"findings"`
	Suggestions string            `json:"suggestions,omitempty"`
	Summary     Summary           `json:"summary"`
}

// Summary aggregates the merged report for quick display.
type Summary struct {
	TotalFindings   int               `json:"total_findings"`
	BySource        map[string]int    `json:"by_source,omitempty"`
	BySeverity      map[string]int    `json:"by_severity,omitempty"`
	Statuses        map[string]string `json:"statuses"`
	Unavailable     []string          `json:"unavailable,omitempty"`
	DurationSeconds float64           `json:"duration_seconds"`
}

// merge flattens per-analyzer results into one deterministic findings list:
// results stay in dispatch order, findings within a result sort by line then
// column.
func merge(results []analyzer.Result) []analyzer.Finding {
	var flat []analyzer.Finding
	for _, res := range results {
		findings := append([]analyzer.Finding(nil), res.Findings...)
		sort.SliceStable(findings, func(i, j int) bool {
			if findings[i].Line != findings[j].Line {
				return findings[i].Line < findings[j].Line
			}
			return findings[i].Column < findings[j].Column
		})
		flat = append(flat, findings...)
	}
	return flat
}

// summarize derives the Summary from merged results.
func summarize(results []analyzer.Result, findings []analyzer.Finding, duration time.Duration) Summary {
	s := Summary{
		TotalFindings:   len(findings),
		Statuses:        make(map[string]string, len(results)),
		DurationSeconds: duration.Seconds(),
	}
	for _, res := range results {
		s.Statuses[res.Analyzer] = res.Status
		if res.Status == analyzer.StatusUnavailable {
			s.Unavailable = append(s.Unavailable, res.Analyzer)
		}
	}
	for _, f := range findings {
		if s.BySource == nil {
			s.BySource = make(map[string]int)
		}
		s.BySource[f.Source]++
		if f.Severity != "" {
			if s.BySeverity == nil {
				s.BySeverity = make(map[string]int)
			}
			s.BySeverity[f.Severity]++
		}
	}
	return s
}
