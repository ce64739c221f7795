package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/stokerhq/stoker/internal/logbook"
	"github.com/stokerhq/stoker/internal/workload"
)

var logsCmd = &cobra.Command{
	Use:   "logs <id>",
	Short: "View a workload's log",
	Long:  `View the log of one workload, or the supervisor's own log with 'stoker logs self'.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLogs,
}

var (
	logLines  int
	logFollow bool
)

func init() {
	logsCmd.Flags().IntVarP(&logLines, "lines", "n", 50, "Number of lines to show")
	logsCmd.Flags().BoolVarP(&logFollow, "follow", "f", false, "Follow log output")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var logFile string
	if args[0] == "self" {
		logFile = cfg.LogFile()
	} else if workload.Valid(args[0]) {
		book, err := logbook.New(cfg.Logs.Dir, cfg.Logs.Ext)
		if err != nil {
			return fmt.Errorf("opening log dir: %w", err)
		}
		logFile = book.Path(workload.ID(args[0]))
	} else {
		return fmt.Errorf("invalid workload id %q", args[0])
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("no log file found at %s", logFile)
	}

	tailArgs := []string{"-n", fmt.Sprintf("%d", logLines)}
	if logFollow {
		tailArgs = append(tailArgs, "-f")
	}
	tailArgs = append(tailArgs, logFile)

	tailCmd := exec.Command("tail", tailArgs...)
	tailCmd.Stdout = os.Stdout
	tailCmd.Stderr = os.Stderr
	return tailCmd.Run()
}
