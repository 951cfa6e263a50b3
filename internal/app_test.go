package internal_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lessweb/internal"
)

type ctxKey struct{}

// testHandler registers a handful of routes used to exercise the router.
type testHandler struct{}

func (h *testHandler) Routes(r internal.Router) {
	r.GET("/items/{id}", func(c internal.Context) error {
		return c.Blob(http.StatusOK, "text/plain", []byte(c.Param("id")))
	})
	r.HEAD("/items/{id}", func(c internal.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	r.GET("/tagged", func(c internal.Context) error {
		return c.Blob(http.StatusOK, "text/plain", []byte(internal.ContextValue[string](c, ctxKey{})))
	}, tagMiddleware("route-a"), tagMiddleware("route-b"))
	r.GET("/written", func(c internal.Context) error {
		_ = c.Blob(http.StatusOK, "text/plain", []byte("partial"))
		return errors.New("late failure")
	})
	r.Any("/any", func(c internal.Context) error {
		return c.Blob(http.StatusOK, "text/plain", []byte(c.Request().Method))
	})
}

// tagMiddleware appends name to the trail stored in the request context.
func tagMiddleware(name string) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			trail := internal.ContextValue[string](c, ctxKey{})
			if trail != "" {
				trail += ","
			}
			c.Set(ctxKey{}, trail+name)
			return next(c)
		}
	}
}

func serve(app *internal.App, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestAppRouting(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithMiddleware(tagMiddleware("global")),
		internal.WithHandlers(&testHandler{}),
	)

	tests := []struct {
		name   string
		method string
		target string
		status int
		body   string
	}{
		{name: "url param", method: http.MethodGet, target: "/items/42", status: http.StatusOK, body: "42"},
		{name: "head", method: http.MethodHead, target: "/items/42", status: http.StatusNoContent},
		{name: "middleware order", method: http.MethodGet, target: "/tagged", status: http.StatusOK, body: "global,route-a,route-b"},
		{name: "any method", method: http.MethodDelete, target: "/any", status: http.StatusOK, body: http.MethodDelete},
		{name: "written response is kept", method: http.MethodGet, target: "/written", status: http.StatusOK, body: "partial"},
		{name: "unknown route", method: http.MethodGet, target: "/nope", status: http.StatusNotFound},
		{name: "method not allowed", method: http.MethodPost, target: "/items/42", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(app, tt.method, tt.target)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
			if tt.status == http.StatusNotFound {
				assert.Equal(t, internal.ContentType, w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestAppErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("custom handler", func(t *testing.T) {
		t.Parallel()

		var got error
		app := internal.New(internal.WithErrorHandler(func(c internal.Context, err error) error {
			got = err
			return c.Blob(http.StatusTeapot, "text/plain", []byte("custom"))
		}))

		w := serve(app, http.MethodGet, "/missing")
		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Equal(t, "custom", w.Body.String())
		assert.ErrorIs(t, got, internal.ErrNotFound)
	})

	t.Run("failing handler falls back to default", func(t *testing.T) {
		t.Parallel()

		app := internal.New(internal.WithErrorHandler(func(internal.Context, error) error {
			return errors.New("render failed")
		}))

		w := serve(app, http.MethodGet, "/missing")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, internal.ContentType, w.Header().Get("Content-Type"))
		assert.Empty(t, w.Body.String())
	})

	t.Run("middleware error", func(t *testing.T) {
		t.Parallel()

		deny := func(internal.HandlerFunc) internal.HandlerFunc {
			return func(internal.Context) error { return internal.ErrInvalidPath }
		}
		app := internal.New(
			internal.WithMiddleware(deny),
			internal.WithHandlers(&testHandler{}),
		)

		w := serve(app, http.MethodGet, "/items/1")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestAppHealthChecks(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithHealthChecks(
			internal.WithReadinessCheck("down", func(context.Context) error { return errors.New("down") }),
		),
	)

	w := serve(app, http.MethodGet, internal.LivenessPath)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = serve(app, http.MethodHead, internal.LivenessPath)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(app, http.MethodGet, internal.ReadinessPath)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Service Unavailable: down", w.Body.String())

	w = serve(app, http.MethodHead, internal.ReadinessPath)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = serve(app, http.MethodPost, internal.ReadinessPath)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(app, http.MethodGet, "/health/ready?format=json")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"status":"unhealthy"`))
}

func TestAppAccessors(t *testing.T) {
	t.Parallel()

	app := internal.New()
	require.NotNil(t, app.Router())
	require.NotNil(t, app.Logger())
}
