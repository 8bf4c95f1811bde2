package envclient

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/cmux-dev/cmux-envd/internal/lockfile"
)

// bootstrapDeadline bounds the whole auto-spawn attempt: dialing the
// existing socket, starting the daemon process, and polling for readiness.
const bootstrapDeadline = 2 * time.Second

const (
	socketPollInterval    = 25 * time.Millisecond
	maxSocketPollInterval = 400 * time.Millisecond
)

// Daemon start failure tracking for exponential backoff across calls within
// this process. A CLI invocation is short-lived, so this mostly protects a
// tight retry loop (e.g. a shell hook firing on every prompt) from
// hammering a daemon binary that keeps failing to start.
var (
	lastStartAttempt time.Time
	startFailures    int
)

// EnsureDaemon returns a Client connected to a daemon at socketPath,
// starting one via execPath if none is reachable yet. It never blocks
// longer than bootstrapDeadline in total.
func EnsureDaemon(socketPath, execPath string, requestTimeout time.Duration) (*Client, error) {
	deadline := time.Now().Add(bootstrapDeadline)

	if ok, _ := TryConnect(socketPath, 200*time.Millisecond); ok {
		return New(socketPath, requestTimeout), nil
	}

	if !canRetryStart() {
		return nil, fmt.Errorf("envclient: daemon recently failed to start, backing off")
	}

	lockPath := lockfile.PathFor(socketPath)
	lock, acquired, err := lockfile.TryDaemonLock(socketPath)
	if err != nil {
		return nil, fmt.Errorf("envclient: acquire start lock %s: %w", lockPath, err)
	}

	if !acquired {
		// Another process is already starting (or running) the daemon; just
		// wait for its socket to become dialable.
		if waitForSocket(socketPath, deadline) {
			return New(socketPath, requestTimeout), nil
		}
		return nil, fmt.Errorf("envclient: daemon did not become ready within %s", bootstrapDeadline)
	}
	// The daemon's Start takes this same lock before binding, so it must be
	// released before spawning; otherwise the new daemon sees it held and
	// exits with ErrAlreadyRunning.
	_ = lock.Unlock()

	if err := spawnDaemon(execPath); err != nil {
		recordStartFailure()
		return nil, fmt.Errorf("envclient: spawn daemon: %w", err)
	}

	if waitForSocket(socketPath, deadline) {
		recordStartSuccess()
		return New(socketPath, requestTimeout), nil
	}
	recordStartFailure()
	return nil, fmt.Errorf("envclient: daemon did not become ready within %s", bootstrapDeadline)
}

// spawnDaemon forks execPath as a detached background process running the
// daemon, with its stdio redirected to /dev/null so it can outlive this
// CLI invocation.
func spawnDaemon(execPath string) error {
	cmd := exec.Command(execPath, "daemon", "--start")

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err == nil {
		cmd.Stdin = devNull
		cmd.Stdout = devNull
		cmd.Stderr = devNull
		defer devNull.Close()
	}
	configureDetached(cmd)

	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// waitForSocket polls socketPath, backing off exponentially between
// attempts, until it accepts a Ping or deadline passes.
func waitForSocket(socketPath string, deadline time.Time) bool {
	interval := socketPollInterval
	for {
		if ok, _ := TryConnect(socketPath, 200*time.Millisecond); ok {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		if interval > remaining {
			interval = remaining
		}
		time.Sleep(interval)
		interval *= 2
		if interval > maxSocketPollInterval {
			interval = maxSocketPollInterval
		}
	}
}

func canRetryStart() bool {
	if startFailures == 0 {
		return true
	}
	backoff := time.Duration(5*(1<<uint(startFailures-1))) * time.Second
	if backoff > 120*time.Second {
		backoff = 120 * time.Second
	}
	return time.Since(lastStartAttempt) > backoff
}

func recordStartSuccess() {
	startFailures = 0
}

func recordStartFailure() {
	lastStartAttempt = time.Now()
	startFailures++
}
