package internal

import "errors"

// Request failures. Every one of them is answered with an empty 404
// text/css response by the default error handler.
var (
	ErrInvalidPath    = errors.New("lessweb: path escapes root or lacks .less extension")
	ErrNotFound       = errors.New("lessweb: stylesheet not found")
	ErrWrongType      = errors.New("lessweb: stylesheet path is a directory")
	ErrReadFailure    = errors.New("lessweb: failed to read stylesheet")
	ErrCompileFailure = errors.New("lessweb: failed to compile stylesheet")
)

// Configuration failures reported by NewServerConfig.
var (
	ErrMissingRoot = errors.New("lessweb: root directory is required")
	ErrInvalidRoot = errors.New("lessweb: root is not an accessible directory")
	ErrInvalidPort = errors.New("lessweb: port must be between 0 and 65535")
)
