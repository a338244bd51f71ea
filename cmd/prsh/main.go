package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "prsh",
		Short: "Store selectors for server-rendered Go components",
		Long: `prsh connects a reducer store to server-rendered components.

Components read derived values with UseSelector and re-render only when
the value they select changes. This binary runs the counter demo:

  prsh run     render the counter and dispatch a few actions
  prsh serve   serve the counter live over HTTP and websockets`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		runCmd(),
		serveCmd(),
		versionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
