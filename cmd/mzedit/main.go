// Package main is the entry point for the mzedit model editor.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	logLevel   string
)

// errFindings makes the process exit with status 1 without printing an
// error: the command has already reported what it found.
var errFindings = errors.New("findings reported")

var rootCmd = &cobra.Command{
	Use:   "mzedit [file.mzn]",
	Short: "A terminal editor for MiniZinc models",
	Long: `mzedit edits MiniZinc models in the terminal. It matches brackets as the
cursor moves, keeps indentation, completes keywords and shows compiler
diagnostics and profiling statistics once typing settles.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runView,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: $XDG_CONFIG_HOME/mzedit/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	addViewFlags(rootCmd)

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mzedit %s\n", version)
		fmt.Fprintf(out, "Commit: %s\n", commit)
		fmt.Fprintf(out, "Built: %s\n", date)
	},
}
