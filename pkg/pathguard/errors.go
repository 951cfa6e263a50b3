package pathguard

import "errors"

var (
	// ErrInvalidPath is wrapped by every rejection returned from Resolve.
	ErrInvalidPath = errors.New("pathguard: invalid path")

	// ErrEmptyPath is returned when nothing follows the leading slash.
	ErrEmptyPath = errors.New("pathguard: empty path")

	// ErrExtension is returned when the last segment lacks the required extension.
	ErrExtension = errors.New("pathguard: extension not allowed")

	// ErrUnsafeSegment is returned for empty segments and segments starting with a dot.
	ErrUnsafeSegment = errors.New("pathguard: unsafe segment")
)
