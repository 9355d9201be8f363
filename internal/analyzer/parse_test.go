package analyzer

import (
	"strings"
	"testing"
)

func TestParseRuffOutput(t *testing.T) {
	stdout := `[
  {"code": "F401", "message": "os imported but unused", "filename": "/tmp/revu-1.py", "location": {"row": 1, "column": 8}},
  {"code": "E711", "message": "Comparison to None", "filename": "/tmp/revu-1.py", "location": {"row": 4, "column": 4}}
]`

	findings, err := parseRuffOutput(stdout)
	if err != nil {
		t.Fatalf("parseRuffOutput returned error: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}

	first := findings[0]
	if first.Source != "ruff" {
		t.Errorf("expected source ruff, got %s", first.Source)
	}
	if first.Rule != "F401" {
		t.Errorf("expected rule F401, got %s", first.Rule)
	}
	if first.Line != 1 || first.Column != 8 {
		t.Errorf("expected 1:8, got %d:%d", first.Line, first.Column)
	}
	if first.File != inputName {
		t.Errorf("expected file %s, got %s", inputName, first.File)
	}
	if first.Category != "Lint/Style" {
		t.Errorf("expected category Lint/Style, got %s", first.Category)
	}
}

func TestParseRuffOutputEmpty(t *testing.T) {
	findings, err := parseRuffOutput("  \n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected no findings, got %d", len(findings))
	}
}

func TestParseRuffOutputInvalidJSON(t *testing.T) {
	if _, err := parseRuffOutput("not json"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseMypyOutput(t *testing.T) {
	path := "/tmp/revu-42.py"
	output := strings.Join([]string{
		path + `:3:5: error: Unsupported operand types for + ("int" and "str")  [operator]`,
		path + `:7:1: note: Revealed type is "builtins.int"`,
		`unrelated garbage line`,
		`other.py:1:1: error: should be ignored`,
	}, "\n")

	findings := parseMypyOutput(output, path)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}

	errFinding := findings[0]
	if errFinding.Category != "TypeError/Typing" {
		t.Errorf("expected category TypeError/Typing, got %s", errFinding.Category)
	}
	if errFinding.Rule != "operator" {
		t.Errorf("expected rule operator, got %s", errFinding.Rule)
	}
	if errFinding.Line != 3 || errFinding.Column != 5 {
		t.Errorf("expected 3:5, got %d:%d", errFinding.Line, errFinding.Column)
	}

	note := findings[1]
	if note.Category != "Note" {
		t.Errorf("expected category Note, got %s", note.Category)
	}
}

func TestExtractBracketCode(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{`Unsupported operand types [operator]`, "operator"},
		{`Missing return statement [return]`, "return"},
		{`plain message`, ""},
		{`unbalanced ] bracket [`, ""},
	}

	for _, tt := range tests {
		if got := extractBracketCode(tt.msg); got != tt.want {
			t.Errorf("extractBracketCode(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestParseBanditOutput(t *testing.T) {
	stdout := `{"results": [
  {"test_id": "B602", "issue_text": "subprocess call with shell=True", "issue_severity": "HIGH", "line_number": 12, "filename": "/tmp/revu-9.py"}
]}`

	findings, err := parseBanditOutput(stdout)
	if err != nil {
		t.Fatalf("parseBanditOutput returned error: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Rule != "B602" {
		t.Errorf("expected rule B602, got %s", f.Rule)
	}
	if f.Severity != "HIGH" {
		t.Errorf("expected severity HIGH, got %s", f.Severity)
	}
	if f.Category != "Security" {
		t.Errorf("expected category Security, got %s", f.Category)
	}
	if f.Line != 12 {
		t.Errorf("expected line 12, got %d", f.Line)
	}
}

func TestParsePydocstyleOutput(t *testing.T) {
	path := "/tmp/revu-7.py"
	stdout := strings.Join([]string{
		path + ":1 at module level:",
		"        D100: Missing docstring in public module",
		path + ":4 in public function `add`:",
		"        D103: Missing docstring in public function",
	}, "\n")

	findings := parsePydocstyleOutput(stdout, path)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}

	if findings[0].Rule != "D100" {
		t.Errorf("expected rule D100, got %s", findings[0].Rule)
	}
	if findings[0].Line != 1 {
		t.Errorf("expected line 1, got %d", findings[0].Line)
	}
	if findings[0].Message != "Missing docstring in public module" {
		t.Errorf("unexpected message: %s", findings[0].Message)
	}
	if findings[1].Rule != "D103" || findings[1].Line != 4 {
		t.Errorf("unexpected second finding: %+v", findings[1])
	}
}

func TestParsePydocstyleOutputEmpty(t *testing.T) {
	if findings := parsePydocstyleOutput("", "/tmp/revu-7.py"); len(findings) != 0 {
		t.Errorf("expected no findings, got %d", len(findings))
	}
}

func TestParseASTOutput(t *testing.T) {
	stdout := `{"msg": "invalid syntax", "line": 2, "col": 9}`

	findings := parseASTOutput(stdout)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Rule != "SyntaxError" {
		t.Errorf("expected rule SyntaxError, got %s", f.Rule)
	}
	if f.Line != 2 || f.Column != 9 {
		t.Errorf("expected 2:9, got %d:%d", f.Line, f.Column)
	}
}

func TestParseASTOutputClean(t *testing.T) {
	if findings := parseASTOutput("\n"); findings != nil {
		t.Errorf("expected nil findings for clean parse, got %v", findings)
	}
}

func TestResolveStatus(t *testing.T) {
	if got := resolveStatus(nil); got != StatusOK {
		t.Errorf("expected %s, got %s", StatusOK, got)
	}
	if got := resolveStatus([]Finding{{Source: "ruff"}}); got != StatusIssues {
		t.Errorf("expected %s, got %s", StatusIssues, got)
	}
}

func TestCappedBufferDiscardsOldest(t *testing.T) {
	lb := NewCappedBuffer(10)
	if _, err := lb.Write([]byte("0123456789")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := lb.Write([]byte("abc")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got := lb.String()
	if len(got) > 10 {
		t.Errorf("buffer exceeded max: %d bytes", len(got))
	}
	if !strings.HasSuffix(got, "abc") {
		t.Errorf("expected newest data retained, got %q", got)
	}
}
