package internal

import (
	"fmt"

	"github.com/dmitrymomot/lessweb/pkg/less"
)

// ContentType labels every response, successful or not.
const ContentType = "text/css"

// Compiler turns stylesheet source into CSS.
type Compiler interface {
	Compile(src string, opts less.Options) (string, error)
}

// CompilerFunc adapts a plain function to Compiler.
type CompilerFunc func(src string, opts less.Options) (string, error)

// Compile calls f.
func (f CompilerFunc) Compile(src string, opts less.Options) (string, error) {
	return f(src, opts)
}

// LessCompiler compiles with pkg/less.
type LessCompiler struct {
	// Compress minifies the output.
	Compress bool
}

// Compile implements Compiler.
func (l LessCompiler) Compile(src string, opts less.Options) (string, error) {
	opts.Compress = opts.Compress || l.Compress
	return less.Compile(src, opts)
}

// SafeCompile runs c and converts a panic into a *less.Error of kind
// InternalError, so callers only ever see a result or an error.
func SafeCompile(c Compiler, src string, opts less.Options) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = &less.Error{
				Err:      less.ErrInternal,
				Kind:     less.KindInternal,
				Message:  fmt.Sprintf("compiler panic: %v", r),
				Filename: opts.Filename,
			}
		}
	}()
	return c.Compile(src, opts)
}
