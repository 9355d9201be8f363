package analyzer

import (
	"context"
	"strconv"
	"strings"
)

// BlackChecker runs Black in check mode. Black reports no positions for a
// formatting divergence, only a non-zero exit, so the result carries a
// single whole-file finding.
type BlackChecker struct{}

func (c *BlackChecker) Name() string { return "black" }

func (c *BlackChecker) Tool() string { return "black" }

func (c *BlackChecker) Analyze(ctx context.Context, snippet Snippet) Result {
	path, cleanup, err := writeSnippetFile(snippet.Source)
	if err != nil {
		return errorResult(c.Name(), "write snippet: "+err.Error())
	}
	defer cleanup()

	out := runTool(ctx, "black", "--check", "--diff", path)
	switch {
	case out.notInstalled():
		return unavailableResult(c.Name())
	case out.timedOut():
		return timeoutResult(c.Name())
	}

	var findings []Finding
	if out.Code != 0 {
		findings = append(findings, Finding{
			Source:   "black",
			Rule:     "format",
			Category: "Formatting",
			Message:  "File would be reformatted",
			File:     inputName,
		})
	}
	return Result{
		Analyzer: c.Name(),
		Status:   resolveStatus(findings),
		Findings: findings,
	}
}

// IsortChecker runs isort in check-only mode. Like Black, a non-zero exit
// means the whole file diverges from the canonical import order.
type IsortChecker struct{}

func (c *IsortChecker) Name() string { return "isort" }

func (c *IsortChecker) Tool() string { return "isort" }

func (c *IsortChecker) Analyze(ctx context.Context, snippet Snippet) Result {
	path, cleanup, err := writeSnippetFile(snippet.Source)
	if err != nil {
		return errorResult(c.Name(), "write snippet: "+err.Error())
	}
	defer cleanup()

	out := runTool(ctx, "isort", "--check-only", "--diff", path)
	switch {
	case out.notInstalled():
		return unavailableResult(c.Name())
	case out.timedOut():
		return timeoutResult(c.Name())
	}

	var findings []Finding
	if out.Code != 0 {
		findings = append(findings, Finding{
			Source:   "isort",
			Rule:     "imports",
			Category: "Import Order",
			Message:  "Imports not correctly sorted",
			File:     inputName,
		})
	}
	return Result{
		Analyzer: c.Name(),
		Status:   resolveStatus(findings),
		Findings: findings,
	}
}

// PydocstyleChecker runs pydocstyle and parses its two-line-per-finding output.
type PydocstyleChecker struct{}

func (c *PydocstyleChecker) Name() string { return "pydocstyle" }

func (c *PydocstyleChecker) Tool() string { return "pydocstyle" }

func (c *PydocstyleChecker) Analyze(ctx context.Context, snippet Snippet) Result {
	path, cleanup, err := writeSnippetFile(snippet.Source)
	if err != nil {
		return errorResult(c.Name(), "write snippet: "+err.Error())
	}
	defer cleanup()

	out := runTool(ctx, "pydocstyle", path)
	switch {
	case out.notInstalled():
		return unavailableResult(c.Name())
	case out.timedOut():
		return timeoutResult(c.Name())
	}

	findings := parsePydocstyleOutput(out.Stdout, path)
	return Result{
		Analyzer: c.Name(),
		Status:   resolveStatus(findings),
		Findings: findings,
	}
}

// parsePydocstyleOutput handles pydocstyle's format:
//
//	/tmp/revu-123.py:1 at module level:
//	        D100: Missing docstring in public module
//
// Location lines name the file; the following indented line carries the code.
func parsePydocstyleOutput(stdout, path string) []Finding {
	var findings []Finding
	lines := strings.Split(stdout, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !strings.Contains(line, path+":") {
			continue
		}
		rest := line[strings.Index(line, path+":")+len(path)+1:]
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		lineNo, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}

		rule := ""
		message := strings.TrimSpace(line)
		if i+1 < len(lines) {
			detail := strings.TrimSpace(lines[i+1])
			if code, msg, ok := strings.Cut(detail, ":"); ok && strings.HasPrefix(code, "D") {
				rule = code
				message = strings.TrimSpace(msg)
				i++
			}
		}

		findings = append(findings, Finding{
			Source:   "pydocstyle",
			Rule:     rule,
			Category: "Docstring",
			Message:  message,
			Line:     lineNo,
			File:     inputName,
		})
	}
	return findings
}
