// Package lessweb serves LESS stylesheets compiled on demand.
//
// Every request for /<path>.less compiles <root>/<path>.less and answers
// 200 with Content-Type text/css. Anything else yields a 404 with the same
// content type and an empty body: unsafe or non-.less URLs, missing files,
// directories, read errors and compile errors alike. Nothing is cached, so
// edits show up on the next request.
//
// # Quick Start
//
//	cfg, err := lessweb.NewServerConfig("./styles", lessweb.DefaultListenAddress, lessweb.DefaultPort)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app := lessweb.New(
//	    lessweb.WithLogger("lessweb", middlewares.RequestIDExtractor()),
//	    lessweb.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	    ),
//	    lessweb.WithHandlers(lessweb.NewStylesheetHandler(cfg, lessweb.LessCompiler{})),
//	)
//
//	if err := app.Run(cfg.Addr()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Path Rules
//
// The URL path is split on "/". It is rejected when it is empty, when any
// segment is empty or starts with a dot, or when the last segment does not
// end in ".less". Accepted paths are joined to the root verbatim. See
// package pathguard.
//
// # Compilation
//
// Stylesheets are compiled by package less with the file's directory as the
// import search path. Compile errors are logged once at error level with the
// file name, line and column; a panic inside the compiler is recovered and
// treated the same way.
//
// # Logging
//
// WithLogger builds a JSON slog logger: records below ERROR go to stdout and
// errors go to stderr. Each request logs one "stylesheet request" line with
// the URL and the resolved path.
//
// # Health Checks
//
// WithHealthChecks registers /health/live and /health/ready. They are off by
// default so that every URL belongs to the stylesheet handler.
//
// # Command
//
// cmd/lessweb wraps all of this in a CLI:
//
//	lessweb ROOT [-p|--port 61775] [-s|--listen 127.0.0.1]
package lessweb
