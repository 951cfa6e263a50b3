package middlewares_test

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/lessweb/internal"
)

// logEntry is one call to a testContext Log* method.
type logEntry struct {
	level slog.Level
	msg   string
	attrs []any
}

type testContext struct {
	response http.ResponseWriter
	request  *http.Request
	values   map[any]any

	mu   sync.Mutex
	logs []logEntry
}

var _ internal.Context = (*testContext)(nil)

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		response: w,
		request:  r,
		values:   make(map[any]any),
	}
}

func (c *testContext) Request() *http.Request        { return c.request }
func (c *testContext) Response() http.ResponseWriter { return c.response }
func (c *testContext) Context() context.Context      { return c.request.Context() }
func (c *testContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}
func (c *testContext) Param(string) string          { return "" }
func (c *testContext) Header(name string) string    { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string) { c.response.Header().Set(name, value) }
func (c *testContext) Blob(code int, contentType string, body []byte) error {
	c.response.Header().Set("Content-Type", contentType)
	c.response.WriteHeader(code)
	_, err := c.response.Write(body)
	return err
}
func (c *testContext) NoContent(code int) error { c.response.WriteHeader(code); return nil }
func (c *testContext) Written() bool            { return false }
func (c *testContext) Logger() *slog.Logger     { return slog.Default() }

func (c *testContext) log(level slog.Level, msg string, attrs []any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = append(c.logs, logEntry{level: level, msg: msg, attrs: attrs})
}

func (c *testContext) entries() []logEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]logEntry(nil), c.logs...)
}

func (c *testContext) LogDebug(msg string, attrs ...any) { c.log(slog.LevelDebug, msg, attrs) }
func (c *testContext) LogInfo(msg string, attrs ...any)  { c.log(slog.LevelInfo, msg, attrs) }
func (c *testContext) LogWarn(msg string, attrs ...any)  { c.log(slog.LevelWarn, msg, attrs) }
func (c *testContext) LogError(msg string, attrs ...any) { c.log(slog.LevelError, msg, attrs) }

func (c *testContext) Set(key, value any) {
	c.values[key] = value
	// Mirror into the request context for logger extractors.
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *testContext) Get(key any) any {
	return c.values[key]
}

func (c *testContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *testContext) Err() error                  { return c.request.Context().Err() }
func (c *testContext) Value(key any) any           { return c.request.Context().Value(key) }
