package supervisor

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/stokerhq/stoker/internal/config"
)

// IsRunning reports whether a supervisor owns cfg's workload root, and its
// pid. A stale pid file (dead process) is cleaned up on the way.
func IsRunning(cfg *config.Config) (bool, int, error) {
	data, err := os.ReadFile(cfg.PidFile())
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("reading pid file: %w", err)
	}

	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return false, 0, fmt.Errorf("invalid pid in file %q: %w", pidStr, err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0, nil
	}

	// On unix FindProcess always succeeds; signal 0 probes liveness.
	if err := process.Signal(syscall.Signal(0)); err != nil {
		_ = os.Remove(cfg.PidFile())
		return false, 0, nil
	}

	return true, pid, nil
}

// Shutdown signals the supervisor owning cfg's workload root to stop,
// escalating to SIGKILL if it has not exited after a grace period.
func Shutdown(cfg *config.Config) error {
	running, pid, err := IsRunning(cfg)
	if err != nil {
		return err
	}
	if !running {
		return fmt.Errorf("supervisor is not running")
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("sending SIGTERM: %w", err)
	}

	// Give the supervisor time to stop its workloads and release the lock.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err := process.Signal(syscall.Signal(0)); err != nil {
			os.Remove(cfg.PidFile())
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	_ = process.Signal(syscall.SIGKILL)
	_ = os.Remove(cfg.PidFile())
	return nil
}
