//go:build !windows

package daemon

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// NotifyShutdownSignals arranges for SIGINT and SIGTERM to be delivered on
// ch, the two signals a daemon process is expected to treat as a graceful
// shutdown request that moves it into the Draining state.
func NotifyShutdownSignals(ch chan<- os.Signal) {
	signal.Notify(ch, unix.SIGINT, unix.SIGTERM)
}
