package less

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by *Error.
var (
	ErrSyntax      = errors.New("less: syntax error")
	ErrUndefined   = errors.New("less: undefined name")
	ErrNoMatch     = errors.New("less: no matching mixin definition")
	ErrArgument    = errors.New("less: invalid argument")
	ErrImport      = errors.New("less: import failed")
	ErrOperation   = errors.New("less: invalid operation")
	ErrRecursion   = errors.New("less: recursion limit exceeded")
	ErrUnsupported = errors.New("less: unsupported feature")
	ErrInternal    = errors.New("less: internal error")
)

// Kind groups compile errors into the categories lessc reports.
type Kind string

const (
	KindParse     Kind = "ParseError"
	KindName      Kind = "NameError"
	KindArgument  Kind = "ArgumentError"
	KindFile      Kind = "FileError"
	KindOperation Kind = "OperationError"
	KindInternal  Kind = "InternalError"
)

// Error describes a compile failure and where it happened.
// Line and Column are 1-based; they are zero when the position is unknown.
type Error struct {
	Err      error
	Kind     Kind
	Message  string
	Filename string
	Line     int
	Column   int
}

func (e *Error) Error() string {
	if e.Line == 0 {
		if e.Filename == "" {
			return fmt.Sprintf("%s: %s", e.Kind, e.Message)
		}
		return fmt.Sprintf("%s: %s in %s", e.Kind, e.Message, e.Filename)
	}
	return fmt.Sprintf("%s: %s in %s on line %d, column %d", e.Kind, e.Message, e.Filename, e.Line, e.Column)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsError reports whether err is, or wraps, a compile *Error.
func IsError(err error) bool {
	var le *Error
	return errors.As(err, &le)
}

// AsError extracts the *Error from err if present.
func AsError(err error) (*Error, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// newError builds an *Error positioned at p.
func newError(kind Kind, sentinel error, p pos, format string, args ...any) *Error {
	e := &Error{
		Err:     sentinel,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
	if p.src != nil {
		e.Filename = p.src.name
		e.Line, e.Column = p.src.lineCol(p.at)
	}
	return e
}
