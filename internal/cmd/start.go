package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/stokerhq/stoker/internal/supervisor"
	"github.com/stokerhq/stoker/internal/ui"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the supervisor in the background",
	Long: `Start the supervisor as a background process.

The supervisor runs until stopped with 'stoker stop'.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	running, pid, err := supervisor.IsRunning(cfg)
	if err != nil {
		return fmt.Errorf("checking supervisor status: %w", err)
	}
	if running {
		return fmt.Errorf("supervisor already running (PID %d)", pid)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("finding executable: %w", err)
	}

	// 'stoker run' is the actual supervisor process, detached from the
	// terminal so the console stays disabled.
	bg := exec.Command(exe, "run", "--dir", cfg.Workloads.Dir)
	bg.Stdin = nil
	bg.Stdout = nil
	bg.Stderr = nil
	if err := bg.Start(); err != nil {
		return fmt.Errorf("starting supervisor: %w", err)
	}

	// Wait a moment for the supervisor to acquire the lock.
	time.Sleep(200 * time.Millisecond)

	running, pid, err = supervisor.IsRunning(cfg)
	if err != nil {
		return fmt.Errorf("checking supervisor status: %w", err)
	}
	if !running {
		return fmt.Errorf("supervisor failed to start (check %s)", cfg.LogFile())
	}

	if pid != bg.Process.Pid {
		// A concurrent start won the lock race; that one is fine too.
		fmt.Printf("%s Supervisor already running (PID %d)\n", ui.RenderWarnIcon(), pid)
		return nil
	}

	fmt.Printf("%s Supervisor started (PID %d, v%s)\n", ui.RenderPassIcon(), pid, Version)
	return nil
}
