package analyzer

import (
	"context"
	"encoding/json"
	"strings"
)

// astProgram parses the target file with ast.parse and prints one JSON
// object describing the first syntax error, or nothing when the file parses.
const astProgram = `import ast, json, sys
try:
    with open(sys.argv[1], encoding="utf-8") as f:
        ast.parse(f.read())
except SyntaxError as e:
    print(json.dumps({"msg": e.msg or "invalid syntax", "line": e.lineno or 0, "col": e.offset or 0}))
`

// SyntaxChecker reports the first Python syntax error via ast.parse.
// It is always on: a snippet that does not parse makes most of the other
// tools noisy, so surfacing the parse error first matters.
type SyntaxChecker struct {
	Python string
}

func (c *SyntaxChecker) Name() string { return "syntax" }

func (c *SyntaxChecker) Tool() string { return c.python() }

func (c *SyntaxChecker) python() string {
	if c.Python != "" {
		return c.Python
	}
	return "python3"
}

type astError struct {
	Msg  string `json:"msg"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

func (c *SyntaxChecker) Analyze(ctx context.Context, snippet Snippet) Result {
	path, cleanup, err := writeSnippetFile(snippet.Source)
	if err != nil {
		return errorResult(c.Name(), "write snippet: "+err.Error())
	}
	defer cleanup()

	out := runTool(ctx, c.python(), "-c", astProgram, path)
	switch {
	case out.notInstalled():
		return unavailableResult(c.Name())
	case out.timedOut():
		return timeoutResult(c.Name())
	}

	findings := parseASTOutput(out.Stdout)
	return Result{
		Analyzer: c.Name(),
		Status:   resolveStatus(findings),
		Findings: findings,
	}
}

func parseASTOutput(stdout string) []Finding {
	line := strings.TrimSpace(stdout)
	if line == "" {
		return nil
	}
	var e astError
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		return nil
	}
	return []Finding{{
		Source:   "syntax",
		Rule:     "SyntaxError",
		Category: "SyntaxError",
		Message:  e.Msg,
		Line:     e.Line,
		Column:   e.Col,
		File:     inputName,
	}}
}
