// Package main provides the CLI entrypoint for airkeys.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

func init() {
	// The camera window and the system tray both need the main thread.
	runtime.LockOSThread()
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &runFlags{}
	rootCmd := &cobra.Command{
		Use:           "airkeys",
		Short:         "Type in the air: a camera-driven virtual keyboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKeyboard(cmd, flags)
		},
	}
	flags.register(rootCmd)

	runFl := &runFlags{}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the keyboard (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKeyboard(cmd, runFl)
		},
	}
	runFl.register(runCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
