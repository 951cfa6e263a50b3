package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/lessweb/internal"
)

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	// OnTimeout is called in the request goroutine once the deadline passes.
	OnTimeout func(c internal.Context, d time.Duration)
	Timeout   time.Duration
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

// WithTimeoutCallback registers a function run when a request times out.
func WithTimeoutCallback(fn func(c internal.Context, d time.Duration)) TimeoutOption {
	return func(cfg *TimeoutConfig) {
		cfg.OnTimeout = fn
	}
}

// Timeout returns middleware that bounds request handling to timeout.
// The request context carries the deadline, so handlers further down see it
// through c.Done and c.Err. When the deadline passes first, a TimeoutError is
// returned to the error handler.
//
// A timeout of zero or less disables the middleware.
//
// Note: the handler goroutine keeps running after the deadline until it
// checks the context.
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Middleware {
	cfg := &TimeoutConfig{Timeout: timeout}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Timeout <= 0 {
		return func(next internal.HandlerFunc) internal.HandlerFunc {
			return next
		}
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), cfg.Timeout)
			defer cancel()
			c.SetContext(ctx)

			type outcome struct {
				err      error
				panicked bool
				value    any
			}
			done := make(chan outcome, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						done <- outcome{panicked: true, value: r}
					}
				}()
				done <- outcome{err: next(c)}
			}()

			select {
			case o := <-done:
				if o.panicked {
					// Surface it on the request goroutine for an outer Recover.
					panic(o.value)
				}
				return o.err
			case <-ctx.Done():
				if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return ctx.Err()
				}
				c.LogWarn("request timeout", "timeout", cfg.Timeout.String())
				if cfg.OnTimeout != nil {
					cfg.OnTimeout(c, cfg.Timeout)
				}
				return &TimeoutError{Duration: cfg.Timeout}
			}
		}
	}
}
