//go:build !windows

package mpv

import (
	"os/exec"
	"syscall"
)

// detached keeps mpv out of the terminal's process group so Ctrl-C reaches vigil only.
func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func kill(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	return cmd.Process.Kill()
}
