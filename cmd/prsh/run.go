package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/prsh/internal/counter"
	"github.com/vango-dev/prsh/pkg/middleware"
	"github.com/vango-dev/prsh/pkg/server"
	"github.com/vango-dev/prsh/pkg/store"
)

func runCmd() *cobra.Command {
	var (
		increments int
		initial    int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Render the counter and dispatch increments",
		Long: `Mount the counter app, dispatch the given number of increments,
and print the HTML of every commit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if increments < 0 {
				return fmt.Errorf("--increments must not be negative, got %d", increments)
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			return runCounter(cmd.OutOrStdout(), logger, initial, increments)
		},
	}

	cmd.Flags().IntVarP(&increments, "increments", "n", 3, "Number of increments to dispatch")
	cmd.Flags().IntVar(&initial, "initial", 0, "Initial count")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log dispatches and renders")

	return cmd
}

// runCounter mounts the app, dispatches n increments, flushing after each,
// and writes every commit to out.
func runCounter(out io.Writer, logger *slog.Logger, initial, n int) error {
	s := counter.NewStore(initial,
		store.WithLogger[counter.State, counter.Action](logger),
		store.WithMiddleware(middleware.Logger[counter.State, counter.Action](logger)),
	)

	commits := 0
	sess := server.NewSession(&server.SessionConfig{
		Logger: logger,
		OnCommit: func(html string) {
			commits++
			fmt.Fprintf(out, "commit %d: %s\n", commits, html)
		},
	})
	defer sess.Unmount()

	if err := sess.Mount(counter.App(s)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := s.Dispatch(counter.Increment{}); err != nil {
			return err
		}
		if err := sess.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "count %d, %d renders, %d listeners\n",
		s.GetState().Count, sess.RenderCount(), s.ListenerCount())
	return nil
}
