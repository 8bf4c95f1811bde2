// Package envclient is the CLI-side half of the daemon protocol: dialing
// the daemon's socket, sending one request per connection, and bootstrapping
// a daemon when none is reachable yet.
package envclient

import (
	"fmt"
	"net"
	"time"

	"github.com/cmux-dev/cmux-envd/internal/protocol"
)

// ClientVersion is this binary's protocol version, sent with every request
// so the daemon can reject an incompatible major version.
var ClientVersion = "v0.1.0"

// Client sends one request per TCP-like connection to the daemon at
// SocketPath. It holds no persistent connection: Execute dials, writes one
// frame, reads one frame, and closes.
type Client struct {
	SocketPath string
	Timeout    time.Duration
}

// New returns a Client for socketPath with the given per-request timeout.
func New(socketPath string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{SocketPath: socketPath, Timeout: timeout}
}

// TryConnect reports whether a daemon is reachable and responds to Ping at
// socketPath, using dialTimeout as the dial and round-trip budget. It never
// returns an error for "no daemon running"; that case is ok == false, err ==
// nil. A non-nil error means something unexpected happened while probing.
func TryConnect(socketPath string, dialTimeout time.Duration) (ok bool, err error) {
	conn, dialErr := net.DialTimeout("unix", socketPath, dialTimeout)
	if dialErr != nil {
		return false, nil
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(dialTimeout))
	if err := protocol.WriteRequest(conn, &protocol.Request{Op: protocol.OpPing, ClientVersion: ClientVersion}); err != nil {
		return false, nil
	}
	resp, err := protocol.ReadResponse(conn)
	if err != nil {
		return false, nil
	}
	return resp.Err == nil, nil
}

// Execute opens one connection, sends req, and returns the daemon's
// response. req.ClientVersion is set automatically if empty.
func (c *Client) Execute(req *protocol.Request) (*protocol.Response, error) {
	if req.ClientVersion == "" {
		req.ClientVersion = ClientVersion
	}

	conn, err := net.DialTimeout("unix", c.SocketPath, c.Timeout)
	if err != nil {
		return nil, fmt.Errorf("envclient: dial %s: %w", c.SocketPath, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
		return nil, fmt.Errorf("envclient: set deadline: %w", err)
	}
	if err := protocol.WriteRequest(conn, req); err != nil {
		return nil, fmt.Errorf("envclient: write request: %w", err)
	}
	resp, err := protocol.ReadResponse(conn)
	if err != nil {
		return nil, fmt.Errorf("envclient: read response: %w", err)
	}
	return resp, nil
}

// Ping sends a Ping request and reports whether the daemon answered without
// an error.
func (c *Client) Ping() error {
	resp, err := c.Execute(&protocol.Request{Op: protocol.OpPing})
	if err != nil {
		return err
	}
	if resp.Err != nil {
		return fmt.Errorf("envclient: ping: %s", resp.Err.Message)
	}
	return nil
}
