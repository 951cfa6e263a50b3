package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lessweb/pkg/logger"
)

type ctxKey struct{}

func requestID(ctx context.Context) (slog.Attr, bool) {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}

func lines(buf *bytes.Buffer) []map[string]any {
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err == nil {
			out = append(out, rec)
		}
	}
	return out
}

func TestNewConsoleRoutesByLevel(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	log := logger.NewConsole(&out, &errOut)

	log.Debug("hidden")
	log.Info("stylesheet request", slog.String("url", "/a.less"))
	log.Warn("slow")
	log.Error("compile failed")

	stdout := lines(&out)
	require.Len(t, stdout, 2)
	assert.Equal(t, "stylesheet request", stdout[0]["msg"])
	assert.Equal(t, "/a.less", stdout[0]["url"])
	assert.Equal(t, "slow", stdout[1]["msg"])

	stderr := lines(&errOut)
	require.Len(t, stderr, 1)
	assert.Equal(t, "compile failed", stderr[0]["msg"])
	assert.Equal(t, "ERROR", stderr[0]["level"])
}

func TestNewConsoleExtractors(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	log := logger.NewConsole(&out, &errOut, requestID, nil)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.InfoContext(ctx, "with id")
	log.Info("without id")
	log.With(slog.String("component", "server")).ErrorContext(ctx, "boom")

	stdout := lines(&out)
	require.Len(t, stdout, 2)
	assert.Equal(t, "req-1", stdout[0]["request_id"])
	assert.NotContains(t, stdout[1], "request_id")

	stderr := lines(&errOut)
	require.Len(t, stderr, 1)
	assert.Equal(t, "req-1", stderr[0]["request_id"])
	assert.Equal(t, "server", stderr[0]["component"])
}

func TestNewWithSentryWithoutDSN(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	log := logger.NewWithSentry(logger.SentryConfig{Out: &out, ErrOut: &errOut})

	log.Info("info")
	log.Error("error")

	assert.Len(t, lines(&out), 1)
	assert.Len(t, lines(&errOut), 1)
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.NotNil(t, log)
	log.Error("discarded")
}
