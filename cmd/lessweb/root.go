package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmitrymomot/lessweb"
	"github.com/dmitrymomot/lessweb/middlewares"
	"github.com/dmitrymomot/lessweb/pkg/health"
	"github.com/dmitrymomot/lessweb/pkg/logger"
)

const envPrefix = "LESSWEB"

// settings is the merged result of flags, environment and defaults.
type settings struct {
	Root            string        `mapstructure:"root"`
	Listen          string        `mapstructure:"listen"`
	Port            int           `mapstructure:"port"`
	Compress        bool          `mapstructure:"compress"`
	Health          bool          `mapstructure:"health"`
	RequestTimeout  time.Duration `mapstructure:"request-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`

	logger.SentryConfig `mapstructure:",squash"`
}

// serveFunc runs the server for validated settings until ctx is done.
type serveFunc func(ctx context.Context, s settings, cfg lessweb.ServerConfig, stdout, stderr io.Writer) error

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, run serveFunc) int {
	cmd := newRootCmd(stdout, stderr, run)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer, run serveFunc) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "lessweb ROOT",
		Short: "Serve LESS stylesheets compiled on request",
		Long: `lessweb serves the .less files below ROOT. A request for /a/b.less
compiles ROOT/a/b.less and returns it as text/css. Missing files, directories,
unsafe paths and compile errors all yield an empty 404.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v.Set("root", args[0])
			}

			var s settings
			if err := v.Unmarshal(&s); err != nil {
				return fmt.Errorf("read configuration: %w", err)
			}

			cfg, err := lessweb.NewServerConfig(s.Root, s.Listen, s.Port)
			if err != nil {
				return err
			}
			return run(cmd.Context(), s, cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.IntP("port", "p", lessweb.DefaultPort, "port to listen on")
	flags.StringP("listen", "s", lessweb.DefaultListenAddress, "address to bind")
	flags.Bool("compress", false, "minify the generated CSS")
	flags.Bool("health", false, "serve /health/live and /health/ready")
	flags.Duration("request-timeout", 0, "abort requests running longer than this (0 disables)")
	flags.Duration("shutdown-timeout", 30*time.Second, "grace period for in-flight requests on shutdown")
	flags.String("sentry-dsn", "", "report errors to Sentry")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)
	_ = v.BindPFlag("sentry_dsn", flags.Lookup("sentry-dsn"))
	_ = v.BindEnv("root")
	_ = v.BindEnv("sentry_environment")

	return cmd
}

// newLogger builds the process logger. With a Sentry DSN, errors are
// reported there as well.
func newLogger(s settings, stdout, stderr io.Writer) *slog.Logger {
	sc := s.SentryConfig
	sc.Out, sc.ErrOut = stdout, stderr
	return logger.NewWithSentry(sc, middlewares.RequestIDExtractor()).With("component", "lessweb")
}

// buildApp wires the stylesheet handler and middleware chain.
func buildApp(s settings, cfg lessweb.ServerConfig, log *slog.Logger) *lessweb.App {
	opts := []lessweb.Option{
		lessweb.WithCustomLogger(log),
		lessweb.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Timeout(s.RequestTimeout),
			middlewares.Recover(),
		),
		lessweb.WithHandlers(lessweb.NewStylesheetHandler(cfg, lessweb.LessCompiler{Compress: s.Compress})),
	}
	if s.Health {
		opts = append(opts, lessweb.WithHealthChecks(
			lessweb.WithReadinessCheck("root", health.DirCheck(cfg.Root)),
		))
	}
	return lessweb.New(opts...)
}

// serve runs the HTTP server until SIGINT, SIGTERM or ctx cancellation.
func serve(ctx context.Context, s settings, cfg lessweb.ServerConfig, stdout, stderr io.Writer) error {
	log := newLogger(s, stdout, stderr)
	app := buildApp(s, cfg, log)

	runOpts := []lessweb.RunOption{
		lessweb.WithContext(ctx),
		lessweb.Logger(log),
		lessweb.ShutdownTimeout(s.ShutdownTimeout),
	}
	if s.DSN != "" {
		runOpts = append(runOpts, lessweb.ShutdownHook(func(ctx context.Context) error {
			timeout := 2 * time.Second
			if dl, ok := ctx.Deadline(); ok {
				timeout = time.Until(dl)
			}
			sentry.Flush(timeout)
			return nil
		}))
	}

	log.Info("serving stylesheets", slog.String("root", cfg.Root), slog.String("address", cfg.Addr()))
	return app.Run(cfg.Addr(), runOpts...)
}
