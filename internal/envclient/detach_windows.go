//go:build windows

package envclient

import "os/exec"

// configureDetached is a no-op on Windows; CREATE_NEW_PROCESS_GROUP would be
// the equivalent but isn't needed since envctl has no Windows hook install
// path that spawns a job-controlling shell around the daemon.
func configureDetached(cmd *exec.Cmd) {}
