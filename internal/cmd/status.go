package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stokerhq/stoker/internal/logbook"
	"github.com/stokerhq/stoker/internal/supervisor"
	"github.com/stokerhq/stoker/internal/ui"
	"github.com/stokerhq/stoker/internal/workload"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show supervisor status",
	Long:  `Show whether the supervisor is running and what it last reconciled.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	running, pid, err := supervisor.IsRunning(cfg)
	if err != nil {
		return fmt.Errorf("checking supervisor status: %w", err)
	}

	if !running {
		fmt.Printf("%s Supervisor not running\n", ui.RenderStopIcon())
		fmt.Println()
		fmt.Printf("  Root:       %s\n", cfg.Workloads.Dir)
		fmt.Println()
		fmt.Printf("  Start with: %s\n", ui.RenderMuted("stoker start"))
		return nil
	}

	state, err := supervisor.LoadState(cfg.StateFile())
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	fmt.Printf("%s Supervisor running (PID %d)\n", ui.RenderPassIcon(), pid)
	fmt.Println()
	fmt.Printf("  Root:       %s\n", cfg.Workloads.Dir)
	if !state.StartedAt.IsZero() {
		fmt.Printf("  Started:    %s (up %s)\n",
			state.StartedAt.Format(logbook.TimeLayout),
			logbook.FormatUptime(time.Since(state.StartedAt)))
	}
	if !state.LastReconcile.IsZero() {
		fmt.Printf("  Reconcile:  #%d (%s)\n",
			state.ReconcileCount, state.LastReconcile.Format(logbook.TimeLayout))
	}
	fmt.Printf("  Workloads:  %d running\n", state.Workloads)
	fmt.Printf("  Log:        %s\n", cfg.LogFile())

	if ids, err := workload.Discover(cfg.Workloads.Dir); err == nil {
		fmt.Printf("  On disk:    %d\n", len(ids))
	}
	return nil
}
