// Package lockfile guards the daemon's "is another daemon already binding
// this socket" race with an on-disk exclusive lock.
package lockfile

import (
	"fmt"

	"github.com/gofrs/flock"
)

// Lock wraps a single flock.Flock for one daemon's start-up guard.
type Lock struct {
	fl *flock.Flock
}

// New returns a Lock backed by the file at path. path is typically the
// socket path with a ".lock" suffix, so it lives alongside the socket in
// the same runtime directory.
func New(path string) *Lock {
	return &Lock{fl: flock.New(path)}
}

// TryLock attempts a non-blocking exclusive lock. ok is false (with a nil
// error) when another process already holds it.
func (l *Lock) TryLock() (ok bool, err error) {
	ok, err = l.fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("lockfile: try lock %s: %w", l.fl.Path(), err)
	}
	return ok, nil
}

// Unlock releases the lock. It is a no-op if the lock was never acquired.
func (l *Lock) Unlock() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("lockfile: unlock %s: %w", l.fl.Path(), err)
	}
	return nil
}

// Path returns the lock file's path.
func (l *Lock) Path() string {
	return l.fl.Path()
}

// PathFor derives a lock file path from a socket path by appending ".lock",
// so it lives alongside the socket as a sibling file.
func PathFor(socketPath string) string {
	return socketPath + ".lock"
}

// TryDaemonLock attempts to acquire the start-up lock derived from
// socketPath. When two clients race to auto-spawn the daemon, only one
// acquires this lock and proceeds to bind the socket; the other observes
// ok=false and falls through to connecting to the winner.
func TryDaemonLock(socketPath string) (lock *Lock, ok bool, err error) {
	l := New(PathFor(socketPath))
	ok, err = l.TryLock()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return l, true, nil
}
