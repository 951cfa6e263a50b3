// Package pathguard maps request URLs onto files below a root directory.
//
// Validation is purely syntactic. A URL is accepted only when every
// slash-delimited segment is non-empty and does not begin with a dot, and
// when the final segment carries the expected extension. That rules out
// "..", hidden files, and doubled slashes without touching the filesystem,
// so the same input always yields the same answer.
//
// # Usage
//
//	p, err := pathguard.Resolve("/srv/styles", "/theme/main.less")
//	// p == "/srv/styles/theme/main.less"
//
//	_, err = pathguard.Resolve("/srv/styles", "/../etc/passwd.less")
//	// errors.Is(err, pathguard.ErrUnsafeSegment) == true
//
// Every rejection wraps [ErrInvalidPath], so callers that do not care about
// the precise reason can check a single sentinel.
//
// A [Resolver] binds a root and an extension once for repeated use.
package pathguard
