package internal

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/lessweb/pkg/fsstat"
	"github.com/dmitrymomot/lessweb/pkg/less"
	"github.com/dmitrymomot/lessweb/pkg/pathguard"
)

// StylesheetHandler compiles the .less file addressed by the request path
// on every request. Nothing is cached.
type StylesheetHandler struct {
	resolver pathguard.Resolver
	compiler Compiler
	readFile func(string) ([]byte, error)
}

// NewStylesheetHandler serves stylesheets below cfg.Root. A nil compiler
// selects LessCompiler with default options.
func NewStylesheetHandler(cfg ServerConfig, compiler Compiler) *StylesheetHandler {
	if compiler == nil {
		compiler = LessCompiler{}
	}
	return &StylesheetHandler{
		resolver: pathguard.New(cfg.Root, pathguard.DefaultExtension),
		compiler: compiler,
		readFile: os.ReadFile,
	}
}

// Routes registers the handler for every method and path.
func (h *StylesheetHandler) Routes(r Router) {
	r.Any("/*", h.Serve)
}

// Serve answers one request. Every failure is returned as an error wrapping
// one of ErrInvalidPath, ErrNotFound, ErrWrongType, ErrReadFailure or
// ErrCompileFailure.
func (h *StylesheetHandler) Serve(c Context) error {
	u := c.Request().URL
	path, rerr := h.resolver.Resolve(u.Path)
	c.LogInfo("stylesheet request", slog.String("url", u.RequestURI()), slog.String("path", path))
	if rerr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPath, rerr)
	}

	switch fsstat.Stat(path) {
	case fsstat.RegularFile:
	case fsstat.Directory:
		return fmt.Errorf("%w: %s", ErrWrongType, path)
	default:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	data, err := h.readFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadFailure, err)
	}

	css, err := SafeCompile(h.compiler, string(data), less.Options{
		Paths:    []string{filepath.Dir(path)},
		Filename: filepath.Base(path),
	})
	if err != nil {
		c.LogError("stylesheet compile failed", slog.String("path", path), slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrCompileFailure, err)
	}
	if err := c.Err(); err != nil {
		return err
	}

	return c.Blob(http.StatusOK, ContentType, []byte(css))
}
