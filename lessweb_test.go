package lessweb_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lessweb"
	"github.com/dmitrymomot/lessweb/middlewares"
	"github.com/dmitrymomot/lessweb/pkg/health"
	"github.com/dmitrymomot/lessweb/pkg/logger"
)

func newTestApp(t *testing.T, out, errOut *bytes.Buffer) (*lessweb.App, lessweb.ServerConfig) {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"style.less":          "@primary: #336699;\n.btn {\n  color: @primary;\n  &:hover { color: fade(@primary, 50%); }\n}\n",
		"broken.less":         ".a { color: ",
		"mixins/buttons.less": ".rounded(@r: 2px) { border-radius: @r; }",
		"site.less":           "@import \"mixins/buttons\";\n.card { .rounded(4px); }",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	cfg, err := lessweb.NewServerConfig(dir, "", lessweb.DefaultPort)
	require.NoError(t, err)

	app := lessweb.New(
		lessweb.WithCustomLogger(logger.NewConsole(out, errOut, middlewares.RequestIDExtractor())),
		lessweb.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
		),
		lessweb.WithHealthChecks(lessweb.WithReadinessCheck("root", health.DirCheck(cfg.Root))),
		lessweb.WithHandlers(lessweb.NewStylesheetHandler(cfg, nil)),
	)
	return app, cfg
}

func TestServe(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	app, cfg := newTestApp(t, &out, &errOut)
	assert.Equal(t, "127.0.0.1:61775", cfg.Addr())

	tests := []struct {
		name   string
		target string
		status int
		body   string
	}{
		{
			name:   "compiles stylesheet",
			target: "/style.less",
			status: http.StatusOK,
			body:   ".btn {\n  color: #336699;\n}\n.btn:hover {\n  color: rgba(51, 102, 153, 0.5);\n}\n",
		},
		{
			name:   "resolves imports",
			target: "/site.less",
			status: http.StatusOK,
			body:   ".card {\n  border-radius: 4px;\n}\n",
		},
		{name: "missing", target: "/missing.less", status: http.StatusNotFound},
		{name: "directory", target: "/subdir", status: http.StatusNotFound},
		{name: "broken", target: "/broken.less", status: http.StatusNotFound},
		{name: "traversal", target: "/../secret.less", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

		assert.Equal(t, tt.status, w.Code, tt.name)
		assert.Equal(t, lessweb.ContentType, w.Header().Get("Content-Type"), tt.name)
		assert.Len(t, w.Header(), 1, tt.name)
		assert.Equal(t, tt.body, w.Body.String(), tt.name)
	}

	assert.Equal(t, 1, bytes.Count(errOut.Bytes(), []byte("\n")), "only the broken stylesheet reaches the error stream")
	assert.Equal(t, len(tests), bytes.Count(out.Bytes(), []byte(`"msg":"stylesheet request"`)))
	assert.Contains(t, out.String(), `"request_id":`)
}

func TestServeHealth(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	app, cfg := newTestApp(t, &out, &errOut)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, os.RemoveAll(cfg.Root))

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
