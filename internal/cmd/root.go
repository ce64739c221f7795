// Package cmd provides CLI commands for the stoker tool.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is overridden at release build time via ldflags.
var Version = "dev"

var workloadRoot string

var rootCmd = &cobra.Command{
	Use:     "stoker",
	Short:   "Stoker - workload process supervisor",
	Version: Version,
	Long: `Stoker supervises long-running workload processes.

Each subdirectory of the workload root whose name is a number is a
workload. Stoker launches every workload's entry point, restarts crashes
after a fixed delay, appends all output to per-workload logs, and rescans
the root periodically to pick up added and removed workloads.

Run without arguments, stoker supervises in the foreground with an
interactive console. Use 'stoker start' to supervise in the background.`,
	RunE: runSupervise,
}

// Execute runs the root command and returns an exit code for main.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		// Errors already printed by cobra
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workloadRoot, "dir", "d", ".", "Workload root directory")
}
