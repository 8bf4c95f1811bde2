// Package envlog provides the daemon's structured logger: key=value lines
// to stderr by default, and to a rotated file once the daemon has detached
// and redirected its own stdio to /dev/null.
package envlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the shape the daemon and client packages depend on. It is
// small on purpose, so the server loop and dispatch code can take any
// implementation without caring whether it writes to stderr or a file.
type Logger interface {
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// kvLogger writes level-tagged key=value lines to an io.Writer.
type kvLogger struct {
	mu  sync.Mutex
	out io.Writer
}

// NewStderr returns a Logger that writes to os.Stderr.
func NewStderr() Logger {
	return &kvLogger{out: os.Stderr}
}

// NewFile returns a Logger that writes to a lumberjack-rotated file at
// path (created with its parent directories as needed), 5 MB per file and
// 3 backups retained.
func NewFile(path string) (Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("envlog: create log dir: %w", err)
	}
	return &kvLogger{out: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // MB
		MaxBackups: 3,
		Compress:   false,
	}}, nil
}

// DefaultLogPath returns $XDG_STATE_HOME/cmux-envd/envd.log, falling back
// to $HOME/.local/state when XDG_STATE_HOME is unset.
func DefaultLogPath() string {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "cmux-envd", "envd.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", "cmux-envd", "envd.log")
}

func (l *kvLogger) log(level, msg string, kv []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("time=%s level=%s msg=%q", time.Now().Format(time.RFC3339), level, msg)
	for i := 0; i+1 < len(kv); i += 2 {
		line += fmt.Sprintf(" %v=%v", kv[i], kv[i+1])
	}
	fmt.Fprintln(l.out, line)
}

func (l *kvLogger) Info(msg string, kv ...any)  { l.log("info", msg, kv) }
func (l *kvLogger) Warn(msg string, kv ...any)  { l.log("warn", msg, kv) }
func (l *kvLogger) Error(msg string, kv ...any) { l.log("error", msg, kv) }

// Discard is a Logger that drops everything, useful in tests that don't
// want stderr noise.
var Discard Logger = discardLogger{}

type discardLogger struct{}

func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
