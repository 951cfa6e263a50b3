package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lessweb"
	"github.com/dmitrymomot/lessweb/pkg/logger"
)

type captured struct {
	called   bool
	settings settings
	cfg      lessweb.ServerConfig
}

func (c *captured) serve(_ context.Context, s settings, cfg lessweb.ServerConfig, _, _ io.Writer) error {
	c.called = true
	c.settings = s
	c.cfg = cfg
	return nil
}

func run(t *testing.T, args ...string) (int, *captured, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	c := &captured{}
	code := execute(context.Background(), args, &stdout, &stderr, c.serve)
	return code, c, stdout.String(), stderr.String()
}

func TestExecute(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.less")
	require.NoError(t, os.WriteFile(file, []byte(".a{}"), 0o644))

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		for _, flag := range []string{"-h", "--help"} {
			code, c, stdout, _ := run(t, flag)
			assert.Equal(t, 0, code)
			assert.False(t, c.called)
			assert.Contains(t, stdout, "lessweb ROOT")
			assert.Contains(t, stdout, "--port")
			assert.Contains(t, stdout, "--listen")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		code, c, _, stderr := run(t, dir+"/")
		require.Equal(t, 0, code, stderr)
		require.True(t, c.called)
		assert.Equal(t, dir, c.cfg.Root)
		assert.Equal(t, "127.0.0.1:61775", c.cfg.Addr())
		assert.False(t, c.settings.Compress)
		assert.Equal(t, time.Duration(0), c.settings.RequestTimeout)
		assert.Equal(t, 30*time.Second, c.settings.ShutdownTimeout)
		assert.Empty(t, c.settings.DSN)
	})

	t.Run("flags", func(t *testing.T) {
		t.Parallel()

		code, c, _, stderr := run(t, dir, "-p", "8080", "-s", "0.0.0.0", "--compress", "--health",
			"--request-timeout", "5s", "--shutdown-timeout", "1s", "--sentry-dsn", "https://key@example.com/1")
		require.Equal(t, 0, code, stderr)
		assert.Equal(t, "0.0.0.0:8080", c.cfg.Addr())
		assert.True(t, c.settings.Compress)
		assert.True(t, c.settings.Health)
		assert.Equal(t, 5*time.Second, c.settings.RequestTimeout)
		assert.Equal(t, time.Second, c.settings.ShutdownTimeout)
		assert.Equal(t, "https://key@example.com/1", c.settings.DSN)
	})

	failures := []struct {
		name string
		args []string
	}{
		{name: "missing root", args: nil},
		{name: "root does not exist", args: []string{filepath.Join(dir, "nope")}},
		{name: "root is a file", args: []string{file}},
		{name: "port out of range", args: []string{dir, "--port", "70000"}},
		{name: "port not a number", args: []string{dir, "--port", "abc"}},
		{name: "unknown flag", args: []string{dir, "--bogus"}},
		{name: "extra argument", args: []string{dir, dir}},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, c, _, stderr := run(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.False(t, c.called)
			assert.Contains(t, stderr, "Error: ")
		})
	}
}

// Not parallel: t.Setenv.
func TestExecuteEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LESSWEB_ROOT", dir)
	t.Setenv("LESSWEB_PORT", "9000")
	t.Setenv("LESSWEB_REQUEST_TIMEOUT", "2s")
	t.Setenv("LESSWEB_SENTRY_DSN", "https://key@example.com/2")

	code, c, _, stderr := run(t)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, dir, c.cfg.Root)
	assert.Equal(t, 9000, c.cfg.Port)
	assert.Equal(t, 2*time.Second, c.settings.RequestTimeout)
	assert.Equal(t, "https://key@example.com/2", c.settings.DSN)

	code, c, _, stderr = run(t, "-p", "9100")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, 9100, c.cfg.Port, "flag wins over environment")
}

func TestBuildApp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.less"), []byte(".a {\n  color: red;\n}\n.b { margin: 0; }"), 0o644))
	cfg, err := lessweb.NewServerConfig(dir, "", 0)
	require.NoError(t, err)

	log := logger.NewNope()

	t.Run("plain", func(t *testing.T) {
		t.Parallel()

		app := buildApp(settings{}, cfg, log)
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/a.less", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, ".a {\n  color: red;\n}\n.b {\n  margin: 0;\n}\n", w.Body.String())
		assert.Empty(t, w.Header().Get("X-Request-ID"))

		w = httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Equal(t, http.StatusNotFound, w.Code, "health endpoints are off by default")
	})

	t.Run("compress and health", func(t *testing.T) {
		t.Parallel()

		app := buildApp(settings{Compress: true, Health: true, RequestTimeout: time.Second}, cfg, log)
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/a.less", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "\n  ")

		w = httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestServe(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := lessweb.NewServerConfig(dir, "127.0.0.1", 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var stdout, stderr bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, settings{ShutdownTimeout: time.Second}, cfg, &stdout, &stderr)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}
