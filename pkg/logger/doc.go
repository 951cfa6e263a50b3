// Package logger builds the slog loggers used by lessweb.
//
// Output is JSON, one record per line. Records below ERROR go to the first
// writer (stdout by default) and ERROR records go to the second (stderr), so
// an operator watching stderr sees compile failures and nothing else:
//
//	log := logger.NewConsole(os.Stdout, os.Stderr, middlewares.RequestIDExtractor())
//	log.Info("stylesheet request", slog.String("url", "/a.less"))
//
// # Context Extractors
//
// A ContextExtractor turns a request-scoped value into an attribute. It runs
// on every log call, so the value is read from the context passed to
// InfoContext, ErrorContext and friends:
//
//	func requestID(ctx context.Context) (slog.Attr, bool) {
//		id, ok := ctx.Value(key{}).(string)
//		return slog.String("request_id", id), ok
//	}
//
// NewContextHandler applies extractors to any slog.Handler.
//
// # Sentry
//
// NewWithSentry adds a Sentry handler next to the console. ERROR records
// become Sentry issues; WARN records are kept as breadcrumb logs unless
// MinLevel is ERROR. With an empty DSN, or when the client fails to
// initialise, only the console is used.
package logger
