package lessweb

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/dmitrymomot/lessweb/internal"
	"github.com/dmitrymomot/lessweb/pkg/health"
	"github.com/dmitrymomot/lessweb/pkg/logger"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It manages HTTP routing, middleware, and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// ResponseWriter wraps http.ResponseWriter with write tracking and hooks.
	ResponseWriter = internal.ResponseWriter

	// ServerConfig is the validated root directory, listen address and port.
	ServerConfig = internal.ServerConfig

	// Compiler turns stylesheet source into CSS.
	Compiler = internal.Compiler

	// CompilerFunc adapts a function to Compiler.
	CompilerFunc = internal.CompilerFunc

	// LessCompiler is the default Compiler.
	LessCompiler = internal.LessCompiler

	// StylesheetHandler compiles .less files below the root on every request.
	StylesheetHandler = internal.StylesheetHandler
)

// Defaults for the listening socket and the response content type.
const (
	DefaultPort          = internal.DefaultPort
	DefaultListenAddress = internal.DefaultListenAddress
	ContentType          = internal.ContentType
)

// Request failures, all answered with an empty 404 by DefaultErrorHandler.
var (
	ErrInvalidPath    = internal.ErrInvalidPath
	ErrNotFound       = internal.ErrNotFound
	ErrWrongType      = internal.ErrWrongType
	ErrReadFailure    = internal.ErrReadFailure
	ErrCompileFailure = internal.ErrCompileFailure
)

// Configuration failures.
var (
	ErrMissingRoot = internal.ErrMissingRoot
	ErrInvalidRoot = internal.ErrInvalidRoot
	ErrInvalidPort = internal.ErrInvalidPort
)

// New creates a new application with the given options.
//
// Example:
//
//	cfg, err := lessweb.NewServerConfig("./styles", lessweb.DefaultListenAddress, lessweb.DefaultPort)
//	if err != nil {
//	    return err
//	}
//	app := lessweb.New(
//	    lessweb.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    lessweb.WithHandlers(lessweb.NewStylesheetHandler(cfg, nil)),
//	)
//	err = app.Run(cfg.Addr(), lessweb.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewServerConfig validates root, address and port.
// See internal.NewServerConfig for the rules.
func NewServerConfig(root, listenAddress string, port int) (ServerConfig, error) {
	return internal.NewServerConfig(root, listenAddress, port)
}

// NewStylesheetHandler serves stylesheets below cfg.Root.
// A nil compiler selects LessCompiler.
func NewStylesheetHandler(cfg ServerConfig, compiler Compiler) *StylesheetHandler {
	return internal.NewStylesheetHandler(cfg, compiler)
}

// DefaultErrorHandler writes the empty 404 text/css response.
func DefaultErrorHandler(c Context, err error) error {
	return internal.DefaultErrorHandler(c, err)
}

// App options

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithHealthChecks enables /health/live and /health/ready.
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a console logger with a component name and optional extractors.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// Health options

// Fixed health endpoint paths.
const (
	LivenessPath  = internal.LivenessPath
	ReadinessPath = internal.ReadinessPath
)

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server lifecycle logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function to run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// OnStarted registers a callback receiving the bound listener address.
func OnStarted(fn func(net.Addr)) RunOption {
	return internal.OnStarted(fn)
}

// WithContext sets a custom base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// ContextValue retrieves a typed value from the request context.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}
