package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/lessweb/pkg/logger"
)

// http.Server limits. Stylesheet requests are small GETs, so the header and
// read budgets stay tight; compile time counts against WriteTimeout.
const (
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
	readHeaderTimeout = 5 * time.Second
	maxHeaderBytes    = 1 << 20
)

// serve listens on addr and serves h until SIGINT, SIGTERM or cancellation
// of the base context, then shuts down gracefully and runs the hooks.
func (c *runConfig) serve(addr string, h http.Handler) error {
	if addr == "" {
		addr = defaultAddress
	}
	log := c.logger
	if log == nil {
		log = logger.NewNope()
	}
	base := c.baseCtx
	if base == nil {
		base = context.Background()
	}

	ctx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if c.onStarted != nil {
		c.onStarted(ln.Addr())
	}

	server := &http.Server{
		Handler:           h,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return c.shutdown(server, log)
}

func (c *runConfig) shutdown(server *http.Server, log *slog.Logger) error {
	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), c.shutdownTimeout)
	defer cancel()

	var errs []error
	// In-flight requests finish before the hooks release anything they use.
	if err := server.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, hook := range c.shutdownHooks {
		if err := hook(ctx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		log.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}
	log.Info("shutdown completed")
	return nil
}
