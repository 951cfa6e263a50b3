package middlewares_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lessweb/internal"
	"github.com/dmitrymomot/lessweb/middlewares"
	"github.com/dmitrymomot/lessweb/pkg/logger"
)

func runRequestID(t *testing.T, req *http.Request, opts ...middlewares.RequestIDOption) (string, *httptest.ResponseRecorder) {
	t.Helper()

	rec := httptest.NewRecorder()
	var got string
	handler := middlewares.RequestID(opts...)(func(c internal.Context) error {
		got = middlewares.GetRequestID(c)
		return nil
	})
	require.NoError(t, handler(newTestContext(rec, req)))
	return got, rec
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates a ULID", func(t *testing.T) {
		t.Parallel()

		got, rec := runRequestID(t, httptest.NewRequest(http.MethodGet, "/a.less", nil))
		assert.Len(t, got, 26)
		assert.Empty(t, rec.Header(), "no response header by default")
	})

	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{name: "keeps upstream id", headers: map[string]string{"X-Request-ID": "abc-123"}, expected: "abc-123"},
		{name: "falls back to correlation id", headers: map[string]string{"X-Correlation-ID": "corr-1"}, expected: "corr-1"},
		{name: "request id wins", headers: map[string]string{"X-Request-ID": "first", "X-Correlation-ID": "second"}, expected: "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			got, _ := runRequestID(t, req)
			assert.Equal(t, tt.expected, got)
		})
	}

	rejected := []struct {
		name  string
		value string
	}{
		{name: "too long", value: strings.Repeat("a", middlewares.MaxRequestIDLength+1)},
		{name: "contains space", value: "a b"},
		{name: "non ascii", value: "идентификатор"},
	}

	for _, tt := range rejected {
		t.Run("replaces id that is "+tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-ID", tt.value)
			got, _ := runRequestID(t, req, middlewares.WithRequestIDGenerator(func() string { return "generated" }))
			assert.Equal(t, "generated", got)
		})
	}

	t.Run("custom headers and response header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace", "trace-9")
		got, rec := runRequestID(t, req,
			middlewares.WithRequestIDHeaders("X-Trace"),
			middlewares.WithRequestIDResponseHeader("X-Request-ID"),
		)
		assert.Equal(t, "trace-9", got)
		assert.Equal(t, "trace-9", rec.Header().Get("X-Request-ID"))
	})

	t.Run("no id outside the middleware", func(t *testing.T) {
		t.Parallel()

		c := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Empty(t, middlewares.GetRequestID(c))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	extract := middlewares.RequestIDExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	var captured context.Context
	handler := middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "rid-1" }))(
		func(c internal.Context) error {
			captured = c.Request().Context()
			return nil
		},
	)
	require.NoError(t, handler(newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))))

	attr, ok := extract(captured)
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "rid-1", attr.Value.String())
}

func TestRequestIDInApp(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	app := internal.New(
		internal.WithCustomLogger(logger.NewConsole(&out, &errOut, middlewares.RequestIDExtractor())),
		internal.WithMiddleware(middlewares.RequestID()),
		internal.WithHandlers(handlerFunc(func(c internal.Context) error {
			c.LogInfo("handled")
			return c.Blob(http.StatusOK, internal.ContentType, nil)
		})),
	)

	req := httptest.NewRequest(http.MethodGet, "/x.less", nil)
	req.Header.Set("X-Request-ID", "from-proxy")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Request-ID"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &rec))
	assert.Equal(t, "handled", rec["msg"])
	assert.Equal(t, "from-proxy", rec["request_id"])
}

// handlerFunc registers fn for every path.
type handlerFunc func(c internal.Context) error

func (h handlerFunc) Routes(r internal.Router) {
	r.Any("/*", internal.HandlerFunc(h))
}
