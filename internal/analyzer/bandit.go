package analyzer

import (
	"context"
	"encoding/json"
	"strings"
)

// BanditChecker runs the Bandit security scanner with JSON output.
type BanditChecker struct{}

func (c *BanditChecker) Name() string { return "bandit" }

func (c *BanditChecker) Tool() string { return "bandit" }

type banditReport struct {
	Results []banditIssue `json:"results"`
}

type banditIssue struct {
	TestID        string `json:"test_id"`
	IssueText     string `json:"issue_text"`
	IssueSeverity string `json:"issue_severity"`
	LineNumber    int    `json:"line_number"`
	Filename      string `json:"filename"`
}

func (c *BanditChecker) Analyze(ctx context.Context, snippet Snippet) Result {
	path, cleanup, err := writeSnippetFile(snippet.Source)
	if err != nil {
		return errorResult(c.Name(), "write snippet: "+err.Error())
	}
	defer cleanup()

	out := runTool(ctx, "bandit", "-f", "json", "-q", path)
	switch {
	case out.notInstalled():
		return unavailableResult(c.Name())
	case out.timedOut():
		return timeoutResult(c.Name())
	}

	findings, err := parseBanditOutput(out.Stdout)
	if err != nil {
		return errorResult(c.Name(), "parse bandit output: "+err.Error())
	}
	return Result{
		Analyzer: c.Name(),
		Status:   resolveStatus(findings),
		Findings: findings,
	}
}

func parseBanditOutput(stdout string) ([]Finding, error) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" {
		return nil, nil
	}
	var report banditReport
	if err := json.Unmarshal([]byte(trimmed), &report); err != nil {
		return nil, err
	}
	findings := make([]Finding, 0, len(report.Results))
	for _, issue := range report.Results {
		findings = append(findings, Finding{
			Source:   "bandit",
			Rule:     issue.TestID,
			Category: "Security",
			Message:  issue.IssueText,
			Line:     issue.LineNumber,
			File:     inputName,
			Severity: issue.IssueSeverity,
		})
	}
	return findings, nil
}
