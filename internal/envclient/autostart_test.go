package envclient

import (
	"testing"
	"time"
)

func TestCanRetryStartAllowsFirstAttempt(t *testing.T) {
	startFailures = 0
	lastStartAttempt = time.Time{}
	if !canRetryStart() {
		t.Fatal("canRetryStart = false on first attempt, want true")
	}
}

func TestCanRetryStartBacksOffAfterFailure(t *testing.T) {
	startFailures = 0
	recordStartFailure()
	if canRetryStart() {
		t.Fatal("canRetryStart = true immediately after a failure, want false")
	}
}

func TestRecordStartSuccessResetsBackoff(t *testing.T) {
	startFailures = 3
	recordStartSuccess()
	if startFailures != 0 {
		t.Fatalf("startFailures = %d after success, want 0", startFailures)
	}
}

func TestEnsureDaemonConnectsToAlreadyRunningDaemon(t *testing.T) {
	startFailures = 0
	socketPath := newRunningDaemon(t)
	c, err := EnsureDaemon(socketPath, "/bin/true", 2*time.Second)
	if err != nil {
		t.Fatalf("EnsureDaemon: %v", err)
	}
	if err := c.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
