// Package internal provides the core types and implementation for lessweb.
//
// This package is internal and should not be used directly. Import "github.com/dmitrymomot/lessweb"
// instead, which re-exports the public API.
//
// # Core Types
//
//   - App: Orchestrates HTTP routing, middleware, and graceful shutdown
//   - Context: Request/response access, logging, and request-scoped values
//   - Router: Interface handlers use to declare routes
//   - Handler: Interface implemented by types that declare routes on a router
//   - HandlerFunc: Signature for individual route handlers that return errors
//   - Middleware: Wraps handlers to add cross-cutting concerns
//   - ErrorHandler: Renders handler errors
//   - ServerConfig: Validated, immutable root/address/port triple
//   - StylesheetHandler: Resolves, reads and compiles .less files per request
//   - Compiler: Boundary to the stylesheet compiler
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any function
// that expects a standard library context. The Deadline, Done, Err, and Value
// methods delegate to the underlying request context.
//
// # Serving Stylesheets
//
//	cfg, err := internal.NewServerConfig("./styles", "127.0.0.1", 61775)
//	if err != nil {
//	    return err
//	}
//	app := internal.New(
//	    internal.WithHandlers(internal.NewStylesheetHandler(cfg, internal.LessCompiler{})),
//	)
//	err = app.Run(cfg.Addr())
//
// A request for /site/main.less compiles <root>/site/main.less with the
// file's directory as the import search path. The response is 200 text/css
// with the CSS body.
//
// # Error Handling
//
// Handlers report failures by returning an error. The default error handler
// collapses all of them into a single response: 404, Content-Type text/css,
// empty body. The cause stays available to logging through the sentinel
// errors ErrInvalidPath, ErrNotFound, ErrWrongType, ErrReadFailure and
// ErrCompileFailure.
//
// Compiler panics never reach the router. SafeCompile turns them into a
// *less.Error of kind InternalError.
//
// # Server Runtime
//
// Run listens, serves, and waits for SIGINT or SIGTERM, then shuts down
// gracefully and runs the registered shutdown hooks:
//
//	err := app.Run(cfg.Addr(), internal.Logger(log), internal.ShutdownTimeout(5*time.Second))
package internal
