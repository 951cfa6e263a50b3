// Command lessweb serves LESS stylesheets from a directory, compiling each
// one on request.
//
// Usage:
//
//	lessweb ROOT [-h|--help] [-p|--port NUMBER] [-s|--listen ADDRESS]
//
// Every flag can also be set through a LESSWEB_* environment variable, for
// example LESSWEB_PORT or LESSWEB_SENTRY_DSN. Flags take precedence.
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr, serve))
}
