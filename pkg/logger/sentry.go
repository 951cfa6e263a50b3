package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `mapstructure:"sentry_dsn"`
	Environment string `mapstructure:"sentry_environment"`
	// MinLevel determines which log levels to send to Sentry (e.g., slog.LevelWarn for warnings+errors)
	MinLevel slog.Level

	// Out and ErrOut receive console output. They default to stdout and stderr.
	Out    io.Writer `mapstructure:"-"`
	ErrOut io.Writer `mapstructure:"-"`
}

// NewWithSentry creates a logger that sends logs to both the console and Sentry.
// If DSN is empty, only console logging is enabled (graceful fallback for local dev).
// Context extractors are applied to logs sent to both destinations.
func NewWithSentry(cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	out, errOut := cfg.Out, cfg.ErrOut
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	console := consoleHandler(out, errOut)

	if cfg.DSN == "" {
		return slog.New(NewContextHandler(console, extractors...))
	}

	env := cfg.Environment
	if env == "" {
		env = "production"
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: env,
		EnableLogs:  true,
	}); err != nil {
		// Graceful degradation: console only if Sentry init fails
		slog.New(console).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(NewContextHandler(console, extractors...))
	}

	eventLevel := []slog.Level{slog.LevelError}
	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: eventLevel, // Errors create Issues in Sentry
		LogLevel:   logLevel,   // Logs stored for context/search
	}.NewSentryHandler(context.Background())

	return slog.New(NewContextHandler(fanout{console, sentryHandler}, extractors...))
}
