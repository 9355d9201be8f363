package analyzer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	consts "github.com/revulabs/revu-cli/internal/shared/constants"
)

// Exit code conventions carried by toolOutput.Code when the tool itself
// never ran: 127 means the binary is not installed, 124 means the run hit
// its deadline. Matches the shell conventions the report semantics rely on.
const (
	exitNotInstalled = 127
	exitTimeout      = 124
)

type toolOutput struct {
	Code   int
	Stdout string
	Stderr string
}

func (o toolOutput) notInstalled() bool { return o.Code == exitNotInstalled }
func (o toolOutput) timedOut() bool     { return o.Code == exitTimeout }

// runTool invokes an external analyzer binary and captures its output.
// Output is capped per stream so a misbehaving tool cannot exhaust memory.
func runTool(ctx context.Context, name string, args ...string) toolOutput {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- tool name is from the fixed registry, args are a validated temp path plus constant flags.

	stdout := NewCappedBuffer(consts.ToolOutputLimitBytes)
	stderr := NewCappedBuffer(consts.ToolOutputLimitBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()

	out := toolOutput{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	switch {
	case err == nil:
		out.Code = 0
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		out.Code = exitTimeout
	case isNotFound(err):
		out.Code = exitNotInstalled
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.Code = exitErr.ExitCode()
		} else {
			out.Code = 1
			if out.Stderr == "" {
				out.Stderr = err.Error()
			}
		}
	}

	return out
}

func isNotFound(err error) bool {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return true
	}
	var execErr *exec.Error
	return errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound)
}

// writeSnippetFile writes the snippet to a temp .py file and returns its
// path plus a cleanup func. Analyzer tools insist on a real file on disk.
func writeSnippetFile(source string) (string, func(), error) {
	f, err := os.CreateTemp("", "revu-*.py")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if _, err := f.WriteString(source); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

// unavailableResult reports a tool that is not installed on this host.
func unavailableResult(name string) Result {
	return Result{
		Analyzer:  name,
		Status:    StatusUnavailable,
		CheckedAt: time.Now().UTC(),
		Notes:     name + ": not installed",
	}
}

// timeoutResult reports a tool that exceeded its deadline.
func timeoutResult(name string) Result {
	return Result{
		Analyzer:  name,
		Status:    StatusTimeout,
		CheckedAt: time.Now().UTC(),
		Error:     name + ": timed out",
	}
}

// errorResult reports a tool that ran but could not be interpreted.
func errorResult(name string, msg string) Result {
	return Result{
		Analyzer:  name,
		Status:    StatusError,
		CheckedAt: time.Now().UTC(),
		Error:     msg,
	}
}

// inputName is the stable placeholder shown in findings instead of the
// throwaway temp path the tools actually saw.
const inputName = "<input>"

// CappedBuffer implements io.Writer with a size limit to prevent unbounded
// memory growth. It is shared by every subprocess capture in the pipeline,
// including the smoke runner, which executes user-submitted code.
type CappedBuffer struct {
	buf bytes.Buffer
	max int
}

// NewCappedBuffer returns a buffer that retains at most max bytes,
// discarding the oldest data first.
func NewCappedBuffer(max int) *CappedBuffer {
	return &CappedBuffer{max: max}
}

func (lb *CappedBuffer) Write(p []byte) (n int, err error) {
	// If buffer is at max capacity, discard oldest data
	if lb.buf.Len()+len(p) > lb.max {
		// Keep only the last max-len(p) bytes
		keep := lb.max - len(p)
		if keep > 0 {
			data := lb.buf.Bytes()
			lb.buf.Reset()
			lb.buf.Write(data[len(data)-keep:])
		} else {
			lb.buf.Reset()
		}
	}
	return lb.buf.Write(p)
}

func (lb *CappedBuffer) String() string { return lb.buf.String() }
