package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Context is what a HandlerFunc sees of a request. It is also a
// context.Context backed by the request context, so it can be handed to
// anything that takes one.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter

	// Context returns the current request context.
	Context() context.Context

	// SetContext replaces the request context. Handlers further down the
	// chain observe its deadline and values.
	SetContext(ctx context.Context)

	// Param returns a route parameter, or "" when the route has none.
	Param(name string) string

	// Header returns a request header.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// Blob sets Content-Type and writes code and body.
	Blob(code int, contentType string, body []byte) error

	// NoContent writes code without a body.
	NoContent(code int) error

	// Written reports whether the status line has been sent.
	Written() bool

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a request-scoped value; Get reads it back.
	Set(key, value any)
	Get(key any) any
}

type requestContext struct {
	request *http.Request
	writer  *ResponseWriter
	logger  *slog.Logger
}

// newContext reuses the ResponseWriter an outer middleware installed so
// Written stays accurate along the whole chain.
func newContext(w http.ResponseWriter, r *http.Request, logger *slog.Logger) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	return &requestContext{request: r, writer: rw, logger: logger}
}

func (c *requestContext) Request() *http.Request        { return c.request }
func (c *requestContext) Response() http.ResponseWriter { return c.writer }
func (c *requestContext) Context() context.Context      { return c.request.Context() }

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Deadline() (time.Time, bool) { return c.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.Context().Done() }
func (c *requestContext) Err() error                  { return c.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.Context().Value(key) }

func (c *requestContext) Param(name string) string  { return chi.URLParam(c.request, name) }
func (c *requestContext) Header(name string) string { return c.request.Header.Get(name) }

func (c *requestContext) SetHeader(name, value string) {
	c.writer.Header().Set(name, value)
}

func (c *requestContext) Blob(code int, contentType string, body []byte) error {
	c.writer.Header().Set("Content-Type", contentType)
	c.writer.WriteHeader(code)
	_, err := c.writer.Write(body)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.writer.WriteHeader(code)
	return nil
}

func (c *requestContext) Written() bool { return c.writer.Written() }

func (c *requestContext) Logger() *slog.Logger { return c.logger }

func (c *requestContext) log(level slog.Level, msg string, attrs []any) {
	c.logger.Log(c.Context(), level, msg, attrs...)
}

func (c *requestContext) LogDebug(msg string, attrs ...any) { c.log(slog.LevelDebug, msg, attrs) }
func (c *requestContext) LogInfo(msg string, attrs ...any)  { c.log(slog.LevelInfo, msg, attrs) }
func (c *requestContext) LogWarn(msg string, attrs ...any)  { c.log(slog.LevelWarn, msg, attrs) }
func (c *requestContext) LogError(msg string, attrs ...any) { c.log(slog.LevelError, msg, attrs) }

func (c *requestContext) Set(key, value any) {
	c.SetContext(context.WithValue(c.Context(), key, value))
}

func (c *requestContext) Get(key any) any { return c.Context().Value(key) }
