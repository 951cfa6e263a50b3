package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/lessweb/pkg/logger"
)

const (
	defaultTimeout = 5 * time.Second

	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports nil when the dependency it checks is usable.
type CheckFunc func(ctx context.Context) error

// Checks maps a check name to its function.
type Checks map[string]CheckFunc

// Response is the JSON body of a health answer.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check is the outcome of a single named check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures ReadinessHandler.
type Option func(*config)

// WithTimeout bounds a whole check run. Non-positive values keep the default of
// five seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger receives a warn line per failed check.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{timeout: defaultTimeout, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// runChecks executes all checks in parallel and aggregates their results.
func runChecks(ctx context.Context, checks Checks, cfg *config) *Response {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	type outcome struct {
		name string
		err  error
	}
	outcomes := make(chan outcome, len(checks))
	for name, check := range checks {
		go func() {
			outcomes <- outcome{name: name, err: runCheck(ctx, check)}
		}()
	}

	resp := &Response{Status: StatusHealthy, Checks: make(map[string]Check, len(checks))}
	for range len(checks) {
		o := <-outcomes
		if o.err == nil {
			resp.Checks[o.name] = Check{Status: StatusHealthy}
			continue
		}
		resp.Status = StatusUnhealthy
		resp.Checks[o.name] = Check{Status: StatusUnhealthy, Error: o.err.Error()}
		cfg.logger.WarnContext(ctx, "health check failed",
			slog.String("check", o.name),
			slog.String("error", o.err.Error()),
		)
	}
	return resp
}

// runCheck runs check and gives up once ctx is done, so a check that ignores
// its context cannot hold the run open.
func runCheck(ctx context.Context, check CheckFunc) error {
	done := make(chan error, 1)
	go func() {
		done <- check(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ErrCheckTimeout
	}
}
