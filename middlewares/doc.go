// Package middlewares provides HTTP middleware for lessweb applications.
//
// # Request ID
//
// RequestID assigns an ID to each request for tracing. An upstream
// X-Request-ID or X-Correlation-ID header is reused when it looks sane,
// otherwise a ULID is generated. No response header is written unless
// WithRequestIDResponseHeader asks for one.
//
// Use RequestIDExtractor() with WithLogger for automatic request_id in all logs:
//
//	app := lessweb.New(
//	    lessweb.WithLogger("lessweb", middlewares.RequestIDExtractor()),
//	    lessweb.WithMiddleware(
//	        middlewares.RequestID(),
//	    ),
//	)
//
// # Recover
//
// Recover catches panics, logs them once at error level, and converts them
// to a *PanicError for the error handler. The default error handler answers
// with the usual empty 404.
//
// # Timeout
//
// Timeout puts a deadline on the request context and returns a *TimeoutError
// when the handler outlives it. A zero duration disables it.
// Note: The handler goroutine continues after timeout; use context.Done() for early termination.
//
// # Recommended Middleware Order
//
//	lessweb.WithMiddleware(
//	    middlewares.RequestID(),            // First: assign ID for all subsequent logging
//	    middlewares.Timeout(5*time.Second), // Second: enforce timeout
//	    middlewares.Recover(),              // Third: runs on the handler goroutine Timeout starts
//	)
//
// A panic below Timeout is also re-raised on the request goroutine, so a
// Recover placed outside Timeout still catches it.
package middlewares
