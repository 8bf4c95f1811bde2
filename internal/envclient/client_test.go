package envclient

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmux-dev/cmux-envd/internal/daemon"
)

func newRunningDaemon(t *testing.T) (socketPath string) {
	t.Helper()
	socketPath = filepath.Join(t.TempDir(), "envd.sock")
	srv := daemon.New(daemon.Options{SocketPath: socketPath, RequestTimeout: 2 * time.Second})
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := srv.WaitReady(time.Second); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})
	return socketPath
}

func TestTryConnectNoSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "nope.sock")
	ok, err := TryConnect(socketPath, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("TryConnect: %v", err)
	}
	if ok {
		t.Fatal("TryConnect = true, want false for nonexistent socket")
	}
}

func TestTryConnectLiveDaemon(t *testing.T) {
	socketPath := newRunningDaemon(t)
	ok, err := TryConnect(socketPath, time.Second)
	if err != nil {
		t.Fatalf("TryConnect: %v", err)
	}
	if !ok {
		t.Fatal("TryConnect = false, want true for live daemon")
	}
}

func TestClientSetGetRoundTrip(t *testing.T) {
	socketPath := newRunningDaemon(t)
	c := New(socketPath, 2*time.Second)

	if _, err := c.Set("", "FOO", "bar"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, ok, err := c.Get("FOO", "/home/u")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || value != "bar" {
		t.Fatalf("Get = (%q, %v), want (bar, true)", value, ok)
	}
}

func TestClientGetMissingKeyReturnsNotFound(t *testing.T) {
	socketPath := newRunningDaemon(t)
	c := New(socketPath, 2*time.Second)

	_, ok, err := c.Get("MISSING", "/home/u")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("Get ok = true, want false for undefined key")
	}
}

func TestClientHealth(t *testing.T) {
	socketPath := newRunningDaemon(t)
	c := New(socketPath, 2*time.Second)

	health, err := c.Health()
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.ServerVersion == "" {
		t.Fatal("Health.ServerVersion is empty")
	}
}

func TestClientWireErrorPreservesKind(t *testing.T) {
	socketPath := newRunningDaemon(t)
	c := New(socketPath, 2*time.Second)

	_, err := c.Set("", "1bad", "x")
	if err == nil {
		t.Fatal("Set with invalid key succeeded, want error")
	}
	werr, ok := err.(*WireError)
	if !ok {
		t.Fatalf("err type = %T, want *WireError", err)
	}
	if werr.Kind == "" {
		t.Fatal("WireError.Kind is empty")
	}
}
