package internal

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/lessweb/pkg/health"
	"github.com/dmitrymomot/lessweb/pkg/logger"
)

// App orchestrates the application lifecycle.
// It manages HTTP routing, middleware, and graceful shutdown.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router       chi.Router
	errorHandler ErrorHandler
	healthConfig *healthConfig
	logger       *slog.Logger
	middlewares  []Middleware
	handlers     []Handler
}

// New creates a new application with the given options.
//
// Example:
//
//	app := lessweb.New(
//	    lessweb.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    lessweb.WithHandlers(lessweb.NewStylesheetHandler(cfg, lessweb.LessCompiler{})),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:       chi.NewRouter(),
		logger:       logger.NewNope(),
		errorHandler: DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.setupRoutes()
	return a
}

// Router returns the underlying chi.Router for the App.
func (a *App) Router() chi.Router {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// ServeHTTP dispatches the request through the router.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run starts the HTTP server on addr and blocks until shutdown.
//
// Example:
//
//	err := app.Run(cfg.Addr(), lessweb.Logger(log))
func (a *App) Run(addr string, opts ...RunOption) error {
	return buildRunConfig(opts...).serve(addr, a.router)
}

// setupRoutes configures the router with middleware and handlers.
func (a *App) setupRoutes() {
	// Unmatched routes and methods share the handler error path.
	notFound := func(Context) error { return ErrNotFound }
	a.router.NotFound(a.wrapHandler(notFound))
	a.router.MethodNotAllowed(a.wrapHandler(notFound))

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	r := &routerAdapter{router: a.router, app: a}
	if a.healthConfig != nil {
		live := fromHTTP(health.LivenessHandler())
		ready := fromHTTP(health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
		r.GET(LivenessPath, live)
		r.HEAD(LivenessPath, live)
		r.GET(ReadinessPath, ready)
		r.HEAD(ReadinessPath, ready)
	}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

// wrapHandler converts a HandlerFunc to http.HandlerFunc using the app's error handler.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a.logger)
		if err := h(c); err != nil {
			// A handler giving up on a cancelled request leaves the response
			// to whoever cancelled it.
			if ctxErr := c.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return
			}
			a.handleError(c, err)
		}
	}
}

// handleError hands err to the configured error handler unless the
// response has already been written.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		return
	}
	if herr := a.errorHandler(c, err); herr != nil && !c.Written() {
		_ = DefaultErrorHandler(c, herr)
	}
}

// DefaultErrorHandler answers every failure the same way: 404 with a
// text/css content type and an empty body.
func DefaultErrorHandler(c Context, err error) error {
	c.LogDebug("request failed", slog.Any("error", err))
	c.SetHeader("Content-Type", ContentType)
	return c.NoContent(http.StatusNotFound)
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks health.Checks
}

// Health endpoint paths. Neither ends in .less, so they never shadow a
// stylesheet.
const (
	LivenessPath  = "/health/live"
	ReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel on every readiness request.
//
// Example:
//
//	lessweb.WithReadinessCheck("root", health.DirCheck("/srv/styles"))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
