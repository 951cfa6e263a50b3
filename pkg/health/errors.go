package health

import "errors"

var (
	// ErrCheckFailed wraps the cause reported by a failing check.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is reported for a check still running when the run
	// deadline passes.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrNotDirectory is reported by DirCheck when the path exists but is
	// not a directory.
	ErrNotDirectory = errors.New("health: not a directory")
)
