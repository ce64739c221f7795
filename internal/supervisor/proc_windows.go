//go:build windows

package supervisor

import "os/exec"

func setProcAttr(cmd *exec.Cmd) {}

// terminate kills the workload process. Windows has no process groups in
// the POSIX sense, so this covers only the direct child.
func terminate(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
