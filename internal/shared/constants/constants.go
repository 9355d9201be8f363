package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// MaxSnippetBytes caps how large a pasted or uploaded snippet may be.
	MaxSnippetBytes = 1 << 20
	// ToolOutputLimitBytes caps how many bytes of analyzer output we retain per stream.
	ToolOutputLimitBytes = 1 << 20
	// DefaultToolTimeoutSecs bounds a single analyzer subprocess.
	DefaultToolTimeoutSecs = 25
	// DefaultSmokeTimeout bounds the optional runtime smoke test.
	DefaultSmokeTimeout = 3 * time.Second
)
