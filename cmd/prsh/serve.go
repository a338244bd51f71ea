package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/prsh/internal/config"
	"github.com/vango-dev/prsh/internal/errors"
	"github.com/vango-dev/prsh/internal/live"
)

type serveOptions struct {
	configPath   string
	host         string
	port         int
	initialCount int
	logLevel     string
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the counter live",
		Long: `Serve the counter app over HTTP. Every websocket client gets its own
session and receives the HTML of each commit.

Configuration is read from --config, or from prsh.json in the current
directory when it exists. Flags override file values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(cmd, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to prsh.json")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from prsh.json)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to run on (default from prsh.json)")
	cmd.Flags().IntVar(&opts.initialCount, "initial-count", 0, "Initial counter value")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	return cmd
}

// loadServeConfig loads the config file, if any, and applies the flags the
// user set.
func loadServeConfig(cmd *cobra.Command, opts serveOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case opts.configPath != "":
		cfg, err = config.LoadFile(opts.configPath)
	case config.Exists("."):
		cfg, err = config.Load(".")
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = opts.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = opts.port
	}
	if flags.Changed("initial-count") {
		cfg.Store.InitialCount = opts.initialCount
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serve runs the live server until ctx is done, then shuts it down.
func serve(ctx context.Context, cfg *config.Config) error {
	logger := cfg.Logger(os.Stderr)

	srv, err := live.NewServer(cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:    cfg.Address(),
		Handler: srv,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Address(), "count", cfg.Store.InitialCount)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("E300").Wrap(err)
	case <-ctx.Done():
	}

	timeout, _ := cfg.ShutdownTimeout()
	logger.Info("shutting down", "timeout", timeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Websocket connections are hijacked, so Shutdown does not wait for them.
	srv.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.New("E300").Wrap(fmt.Errorf("shutdown: %w", err))
	}
	return nil
}
