//go:build !windows

package supervisor

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcAttr puts the workload in its own process group so a stop can
// signal the whole tree, not just the entry-point shell.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate sends SIGTERM to the workload's process group. Best effort:
// the caller does not wait for confirmation of death.
func terminate(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := unix.Kill(-cmd.Process.Pid, unix.SIGTERM); err != nil {
		// Group signalling can fail if the child never got its own group.
		_ = cmd.Process.Signal(unix.SIGTERM)
	}
}
