// Package sockpath resolves the daemon's Unix domain socket path, with a
// fallback for filesystems/prefixes long enough to overflow
// sockaddr_un.sun_path.
package sockpath

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

const (
	socketDirName  = "cmux-envd"
	socketFileName = "envd.sock"

	// MaxUnixSocketPath is one less than the typical 108-byte sun_path
	// buffer (Linux) / 104-byte buffer (Darwin), leaving room for the NUL
	// terminator on the tighter of the two.
	MaxUnixSocketPath = 103
)

// Resolve computes the socket path: $XDG_RUNTIME_DIR/cmux-envd/envd.sock,
// falling back to ${TMPDIR:-/tmp}/cmux-envd-${UID}/envd.sock when
// XDG_RUNTIME_DIR is unset. If the result would overflow sun_path it is
// rewritten to a shorter, deterministic path under os.TempDir().
func Resolve() (string, error) {
	var path string
	if rt := os.Getenv("XDG_RUNTIME_DIR"); rt != "" {
		path = filepath.Join(rt, socketDirName, socketFileName)
	} else {
		tmp := os.Getenv("TMPDIR")
		if tmp == "" {
			tmp = "/tmp"
		}
		path = filepath.Join(tmp, fmt.Sprintf("%s-%d", socketDirName, os.Getuid()), socketFileName)
	}

	if NeedsShortPath(path) {
		return shortSocketPath(path), nil
	}
	return path, nil
}

// NeedsShortPath reports whether path is too long to bind as a Unix domain
// socket address.
func NeedsShortPath(path string) bool {
	return len(path) > MaxUnixSocketPath
}

// shortSocketPath deterministically maps a too-long path to a short one
// under os.TempDir(), so repeated calls (e.g. client and daemon started
// independently) agree on the same fallback location.
func shortSocketPath(original string) string {
	sum := sha256.Sum256([]byte(original))
	short := hex.EncodeToString(sum[:])[:10]
	return filepath.Join(os.TempDir(), "envd-"+short, socketFileName)
}

// EnsureSocketDir creates path's parent directory with mode 0700, so the
// directory holding the socket is never world-accessible.
func EnsureSocketDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("sockpath: create socket dir %s: %w", dir, err)
	}
	// MkdirAll does not change the mode of a directory that already
	// existed with looser permissions; enforce it explicitly.
	if err := os.Chmod(dir, 0o700); err != nil {
		return fmt.Errorf("sockpath: chmod socket dir %s: %w", dir, err)
	}
	return nil
}

// CleanupSocketDir removes the socket file itself. It is called from the
// Draining->Stopped transition and is a no-op if the file is already gone.
func CleanupSocketDir(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("sockpath: remove socket %s: %w", path, err)
	}
	return nil
}
