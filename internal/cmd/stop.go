package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stokerhq/stoker/internal/supervisor"
	"github.com/stokerhq/stoker/internal/ui"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background supervisor",
	Long:  `Stop the running supervisor and all of its workloads.`,
	RunE:  runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	running, pid, err := supervisor.IsRunning(cfg)
	if err != nil {
		return fmt.Errorf("checking supervisor status: %w", err)
	}
	if !running {
		return fmt.Errorf("supervisor is not running")
	}

	if err := supervisor.Shutdown(cfg); err != nil {
		return fmt.Errorf("stopping supervisor: %w", err)
	}

	fmt.Printf("%s Supervisor stopped (was PID %d)\n", ui.RenderPassIcon(), pid)
	return nil
}
