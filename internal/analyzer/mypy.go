package analyzer

import (
	"context"
	"strconv"
	"strings"
)

// MypyChecker runs mypy in strict mode and parses its line-oriented output.
type MypyChecker struct{}

func (c *MypyChecker) Name() string { return "mypy" }

func (c *MypyChecker) Tool() string { return "mypy" }

var mypyArgs = []string{
	"--hide-error-context",
	"--no-pretty",
	"--show-column-numbers",
	"--no-error-summary",
	"--strict",
}

func (c *MypyChecker) Analyze(ctx context.Context, snippet Snippet) Result {
	path, cleanup, err := writeSnippetFile(snippet.Source)
	if err != nil {
		return errorResult(c.Name(), "write snippet: "+err.Error())
	}
	defer cleanup()

	args := append(append([]string(nil), mypyArgs...), path)
	out := runTool(ctx, "mypy", args...)
	switch {
	case out.notInstalled():
		return unavailableResult(c.Name())
	case out.timedOut():
		return timeoutResult(c.Name())
	}

	findings := parseMypyOutput(out.Stdout+"\n"+out.Stderr, path)
	return Result{
		Analyzer: c.Name(),
		Status:   resolveStatus(findings),
		Findings: findings,
	}
}

// parseMypyOutput extracts findings from lines of the form
//
//	/tmp/revu-123.py:3:5: error: Unsupported operand types ... [operator]
//
// Lines that do not reference the analyzed file are ignored.
func parseMypyOutput(output, path string) []Finding {
	var findings []Finding
	prefix := path + ":"
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, prefix)
		if idx < 0 {
			continue
		}
		rest := line[idx+len(prefix):]
		parts := strings.SplitN(rest, ":", 4)
		if len(parts) < 3 {
			continue
		}
		lineNo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		level := strings.TrimSpace(parts[2])
		msg := level
		if len(parts) == 4 {
			msg = strings.TrimSpace(parts[3])
		}
		category := "Note"
		if strings.Contains(level, "error") {
			category = "TypeError/Typing"
		}
		findings = append(findings, Finding{
			Source:   "mypy",
			Rule:     extractBracketCode(msg),
			Category: category,
			Message:  msg,
			Line:     lineNo,
			Column:   col,
			File:     inputName,
		})
	}
	return findings
}

// extractBracketCode pulls the trailing [code] tag mypy appends to messages.
func extractBracketCode(msg string) string {
	start := strings.LastIndex(msg, "[")
	end := strings.LastIndex(msg, "]")
	if start >= 0 && end > start {
		return msg[start+1 : end]
	}
	return ""
}
