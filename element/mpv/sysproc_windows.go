//go:build windows

package mpv

import (
	"os/exec"
	"syscall"
)

// detached starts mpv in its own process group, the Windows counterpart of Setpgid.
func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

func kill(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
