// Package sandbox executes a submitted snippet in a constrained subprocess
// to surface the first runtime exception and any warnings. Execution is
// strictly opt-in: nothing here runs unless the caller asked for a smoke
// test.
package sandbox

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/revulabs/revu-cli/internal/analyzer"
	consts "github.com/revulabs/revu-cli/internal/shared/constants"
)

// Options controls a single smoke run.
type Options struct {
	// Python names the interpreter binary. Defaults to python3.
	Python string
	// Timeout bounds the whole run. Defaults to constants.DefaultSmokeTimeout.
	Timeout time.Duration
	// WarningsAsErrors adds -W error so Python warnings become failures.
	WarningsAsErrors bool
}

// Runner executes smoke tests.
type Runner struct {
	Options Options
}

// Run executes the snippet with `python -I -X faulthandler` in a scratch
// working directory with an empty environment and stdin closed. The exit
// status and the last traceback line become at most one runtime finding.
func (r *Runner) Run(ctx context.Context, snippet analyzer.Snippet) analyzer.Result {
	const name = "runtime"
	started := time.Now()

	python := r.Options.Python
	if python == "" {
		python = "python3"
	}
	timeout := r.Options.Timeout
	if timeout <= 0 {
		timeout = consts.DefaultSmokeTimeout
	}

	fail := func(msg string) analyzer.Result {
		return analyzer.Result{
			Analyzer:   name,
			Status:     analyzer.StatusError,
			CheckedAt:  time.Now().UTC(),
			DurationMS: time.Since(started).Seconds() * 1000,
			Error:      msg,
		}
	}

	f, err := os.CreateTemp("", "revu-smoke-*.py")
	if err != nil {
		return fail("write snippet: " + err.Error())
	}
	path := f.Name()
	defer os.Remove(path)
	if _, err := f.WriteString(snippet.Source); err != nil {
		_ = f.Close()
		return fail("write snippet: " + err.Error())
	}
	_ = f.Close()

	scratch, err := os.MkdirTemp("", "revu-smoke-dir-*")
	if err != nil {
		return fail("create scratch dir: " + err.Error())
	}
	defer os.RemoveAll(scratch)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"-I", "-X", "faulthandler"}
	if r.Options.WarningsAsErrors {
		args = append(args, "-W", "error")
	}
	args = append(args, path)

	cmd := exec.CommandContext(runCtx, python, args...) // #nosec G204 -- interpreter from config, args are fixed flags plus our own temp path.
	cmd.Dir = scratch
	cmd.Env = []string{} // no inherited secrets
	cmd.Stdin = nil      // stdin closed

	// Submitted code chooses what it prints, so both streams get the same
	// capped capture the analyzer subprocesses use.
	stdout := analyzer.NewCappedBuffer(consts.ToolOutputLimitBytes)
	stderr := analyzer.NewCappedBuffer(consts.ToolOutputLimitBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()

	result := analyzer.Result{
		Analyzer:   name,
		Status:     analyzer.StatusOK,
		CheckedAt:  time.Now().UTC(),
		DurationMS: time.Since(started).Seconds() * 1000,
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.Status = analyzer.StatusTimeout
		result.Error = "runtime: timed out"
		return result
	case isInterpreterMissing(runErr):
		result.Status = analyzer.StatusUnavailable
		result.Notes = python + ": not installed"
		return result
	}

	warnings := collectWarnings(stderr.String())
	if runErr != nil {
		result.Status = analyzer.StatusIssues
		result.Findings = append(result.Findings, analyzer.Finding{
			Source:   "runtime",
			Category: "Runtime",
			Message:  firstExceptionLine(stderr.String(), stdout.String()),
			File:     "<input>",
		})
	}
	for _, w := range warnings {
		result.Findings = append(result.Findings, analyzer.Finding{
			Source:   "runtime",
			Rule:     "warning",
			Category: "Warning",
			Message:  w,
			File:     "<input>",
		})
	}
	if len(result.Findings) > 0 {
		result.Status = analyzer.StatusIssues
	}
	return result
}

func isInterpreterMissing(err error) bool {
	if err == nil {
		return false
	}
	var execErr *exec.Error
	return errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound)
}

// firstExceptionLine returns the exception summary from a Python traceback:
// the last non-empty stderr line, which carries "SomeError: message". Falls
// back to stdout, then a generic label.
func firstExceptionLine(stderr, stdout string) string {
	if line := lastNonEmptyLine(stderr); line != "" {
		return line
	}
	if line := lastNonEmptyLine(stdout); line != "" {
		return line
	}
	return "Runtime error"
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// collectWarnings extracts warning lines Python writes to stderr, e.g.
// "/tmp/x.py:3: DeprecationWarning: ...".
func collectWarnings(stderr string) []string {
	var out []string
	for _, line := range strings.Split(stderr, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.Contains(trimmed, "Warning:") && !strings.HasPrefix(trimmed, "Traceback") {
			out = append(out, trimmed)
		}
	}
	return out
}
