package logger

import (
	"io"
	"log/slog"
	"math"
	"os"
)

// New creates a JSON logger on stdout, with errors routed to stderr.
// See NewConsole.
func New(extractors ...ContextExtractor) *slog.Logger {
	return NewConsole(os.Stdout, os.Stderr, extractors...)
}

// NewConsole creates a JSON logger that writes INFO and WARN records to out
// and ERROR records to errOut. DEBUG is dropped.
func NewConsole(out, errOut io.Writer, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewContextHandler(consoleHandler(out, errOut), extractors...))
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func consoleHandler(out, errOut io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	return fanout{
		&levelRange{next: slog.NewJSONHandler(out, opts), min: slog.LevelInfo, max: slog.LevelError},
		&levelRange{next: slog.NewJSONHandler(errOut, opts), min: slog.LevelError, max: math.MaxInt},
	}
}
