package analyzer

import (
	"context"
	"encoding/json"
	"strings"
)

// RuffChecker runs the Ruff linter with JSON output.
type RuffChecker struct{}

func (c *RuffChecker) Name() string { return "ruff" }

func (c *RuffChecker) Tool() string { return "ruff" }

// ruffItem mirrors one entry of `ruff check --output-format=json`.
type ruffItem struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Location struct {
		Row    int `json:"row"`
		Column int `json:"column"`
	} `json:"location"`
}

func (c *RuffChecker) Analyze(ctx context.Context, snippet Snippet) Result {
	path, cleanup, err := writeSnippetFile(snippet.Source)
	if err != nil {
		return errorResult(c.Name(), "write snippet: "+err.Error())
	}
	defer cleanup()

	out := runTool(ctx, "ruff", "check", "--output-format=json", path)
	switch {
	case out.notInstalled():
		return unavailableResult(c.Name())
	case out.timedOut():
		return timeoutResult(c.Name())
	}

	findings, err := parseRuffOutput(out.Stdout)
	if err != nil {
		return errorResult(c.Name(), "parse ruff output: "+err.Error())
	}
	return Result{
		Analyzer: c.Name(),
		Status:   resolveStatus(findings),
		Findings: findings,
	}
}

func parseRuffOutput(stdout string) ([]Finding, error) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" {
		return nil, nil
	}
	var items []ruffItem
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, err
	}
	findings := make([]Finding, 0, len(items))
	for _, item := range items {
		findings = append(findings, Finding{
			Source:   "ruff",
			Rule:     item.Code,
			Category: "Lint/Style",
			Message:  item.Message,
			Line:     item.Location.Row,
			Column:   item.Location.Column,
			File:     inputName,
		})
	}
	return findings, nil
}
