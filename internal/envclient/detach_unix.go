//go:build !windows

package envclient

import (
	"os/exec"
	"syscall"
)

// configureDetached puts the spawned daemon in its own process group, so it
// survives this CLI process exiting and isn't killed alongside it (e.g. by
// a shell sending SIGHUP to its job's process group on exit).
func configureDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
