package daemon

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmux-dev/cmux-envd/internal/protocol"
)

// newTestServer starts a Server on a fresh socket under t.TempDir() and
// registers cleanup to stop it.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "envd.sock")
	srv := New(Options{SocketPath: socketPath, RequestTimeout: 2 * time.Second})
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
	return srv
}

// roundTrip opens one short-lived connection, sends req, and reads the
// response, matching the client's own one-shot connection lifecycle.
func roundTrip(t *testing.T, srv *Server, req *protocol.Request) *protocol.Response {
	t.Helper()
	conn, err := net.Dial("unix", srv.socketPath)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := protocol.WriteRequest(conn, req); err != nil {
		t.Fatalf("WriteRequest: %v", err)
	}
	resp, err := protocol.ReadResponse(conn)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	return resp
}
