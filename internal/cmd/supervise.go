package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stokerhq/stoker/internal/config"
	"github.com/stokerhq/stoker/internal/console"
	"github.com/stokerhq/stoker/internal/logbook"
	"github.com/stokerhq/stoker/internal/supervisor"
	"github.com/stokerhq/stoker/internal/ui"
)

var superviseRunCmd = &cobra.Command{
	Use:    "run",
	Short:  "Run the supervisor in the foreground (internal)",
	Hidden: true,
	RunE:   runSupervise,
}

func init() {
	rootCmd.AddCommand(superviseRunCmd)
}

func loadConfig() (*config.Config, error) {
	root, err := filepath.Abs(workloadRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving workload root: %w", err)
	}
	return config.Load(root)
}

// runSupervise is the supervise loop shared by the bare `stoker` invocation
// and the hidden `stoker run` that `stoker start` spawns. The interactive
// console attaches only when stdin is a terminal, so a detached background
// supervisor runs console-less.
func runSupervise(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.RuntimeDir(), 0755); err != nil {
		return fmt.Errorf("creating runtime dir: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogFile(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := log.New(logFile, "", log.LstdFlags)

	book, err := logbook.New(cfg.Logs.Dir, cfg.Logs.Ext)
	if err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	sup := supervisor.New(cfg, book, logger, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The console attaches only when stdin is a terminal, so a detached
	// background supervisor runs console-less. There is no exit command;
	// closing stdin ends the command loop while supervision continues
	// until a signal arrives.
	if ui.IsInputTerminal() {
		go func() {
			if err := console.New(sup, os.Stdin, os.Stdout).Run(); err != nil {
				logger.Printf("console: %v", err)
			}
		}()
	}

	return sup.Run(ctx)
}
