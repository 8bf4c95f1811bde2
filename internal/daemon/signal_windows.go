//go:build windows

package daemon

import (
	"os"
	"os/signal"
)

// NotifyShutdownSignals arranges for the process interrupt signal to be
// delivered on ch. Windows has no SIGTERM equivalent reliably delivered to
// console processes, so os.Interrupt is the only one wired here.
func NotifyShutdownSignals(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt)
}
