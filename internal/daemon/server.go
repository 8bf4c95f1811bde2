// Package daemon implements the server loop: binds the socket, accepts one
// connection per client, serializes state mutations through the Store's
// single-writer lock, and enforces the
// Starting -> Serving -> Draining -> Stopped state machine.
package daemon

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmux-dev/cmux-envd/internal/envlog"
	"github.com/cmux-dev/cmux-envd/internal/genlog"
	"github.com/cmux-dev/cmux-envd/internal/lockfile"
	"github.com/cmux-dev/cmux-envd/internal/protocol"
	"github.com/cmux-dev/cmux-envd/internal/sockpath"
	"github.com/cmux-dev/cmux-envd/internal/store"
)

// State is one stage of the daemon's lifecycle state machine.
type State int32

const (
	StateStarting State = iota
	StateServing
	StateDraining
	StateStopped
)

func (st State) String() string {
	switch st {
	case StateStarting:
		return "starting"
	case StateServing:
		return "serving"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Options configures a new Server.
type Options struct {
	SocketPath     string
	RequestTimeout time.Duration
	Logger         envlog.Logger
}

// Server owns the Store and Generation Log for one daemon process and
// serves the protocol over a single Unix domain socket.
type Server struct {
	socketPath     string
	requestTimeout time.Duration
	logger         envlog.Logger

	store   *store.Store
	log     *genlog.Log
	metrics *Metrics

	state     atomic.Int32
	startedAt time.Time

	mu         sync.Mutex
	listener   net.Listener
	lock       *lockfile.Lock
	shutdownCh chan struct{}
	stoppedCh  chan struct{}

	activeConns atomic.Int32
	wg          sync.WaitGroup
}

// New returns a Server ready to Start. The Store always begins empty.
func New(opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = envlog.Discard
	}
	log := genlog.NewLog()
	s := &Server{
		socketPath:     opts.SocketPath,
		requestTimeout: opts.RequestTimeout,
		logger:         opts.Logger,
		store:          store.New(log),
		log:            log,
		metrics:        NewMetrics(),
		shutdownCh:     make(chan struct{}),
		stoppedCh:      make(chan struct{}),
	}
	s.state.Store(int32(StateStarting))
	return s
}

// Store exposes the underlying store, e.g. for tests that want to seed
// state before Start.
func (s *Server) Store() *store.Store { return s.store }

func (s *Server) getState() State { return State(s.state.Load()) }
func (s *Server) setState(st State) { s.state.Store(int32(st)) }

// Start binds the socket and begins accepting connections in the
// background. If a live daemon is already bound at the configured socket
// path, Start returns ErrAlreadyRunning and the caller (cmd/envctl's
// daemon command) is expected to exit 0 silently.
func (s *Server) Start(ctx context.Context) error {
	s.setState(StateStarting)

	if err := sockpath.EnsureSocketDir(s.socketPath); err != nil {
		return err
	}

	if _, err := os.Stat(s.socketPath); err == nil {
		if probePing(ctx, s.socketPath) {
			return ErrAlreadyRunning
		}
		if err := sockpath.CleanupSocketDir(s.socketPath); err != nil {
			return fmt.Errorf("daemon: remove stale socket: %w", err)
		}
	}

	lock, ok, err := lockfile.TryDaemonLock(s.socketPath)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyRunning
	}

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		_ = lock.Unlock()
		return fmt.Errorf("daemon: listen on %s: %w", s.socketPath, err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		ln.Close()
		_ = lock.Unlock()
		return fmt.Errorf("daemon: chmod socket: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.lock = lock
	s.mu.Unlock()

	s.startedAt = time.Now()
	s.setState(StateServing)
	s.logger.Info("daemon serving", "socket", s.socketPath)

	go s.acceptLoop()
	return nil
}

// WaitReady blocks until the server reaches StateServing or timeout
// elapses.
func (s *Server) WaitReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.getState() == StateServing {
			return nil
		}
		time.Sleep(5 * time.Millisecond)
	}
	return fmt.Errorf("daemon: not serving after %s", timeout)
}

// Done returns a channel closed once the server reaches StateStopped.
func (s *Server) Done() <-chan struct{} { return s.stoppedCh }

func (s *Server) acceptLoop() {
	for {
		s.mu.Lock()
		ln := s.listener
		s.mu.Unlock()
		if ln == nil {
			return
		}

		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.shutdownCh:
				return
			default:
				s.logger.Error("accept failed", "err", err)
				return
			}
		}

		if s.getState() == StateDraining {
			conn.Close()
			continue
		}

		s.activeConns.Add(1)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.activeConns.Add(-1)
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic handling connection", "recover", fmt.Sprint(r))
			_ = protocol.WriteResponse(conn, &protocol.Response{Err: &protocol.ErrInfo{
				Kind:    protocol.KindInternal,
				Message: "internal error",
			}})
		}
	}()

	conn.SetDeadline(time.Now().Add(s.requestTimeout))

	req, err := protocol.ReadRequest(conn)
	if err != nil {
		resp := &protocol.Response{Err: classifyReadErr(err)}
		_ = protocol.WriteResponse(conn, resp)
		return
	}

	start := time.Now()
	resp := s.dispatch(req)
	s.metrics.RecordRequest(req.Op, time.Since(start))
	if resp.Err != nil {
		s.metrics.RecordError(req.Op)
	}

	if err := protocol.WriteResponse(conn, resp); err != nil {
		s.logger.Warn("write response failed", "err", err)
		return
	}

	if req.Op == protocol.OpShutdown && resp.Err == nil {
		go func() { _ = s.Stop(context.Background()) }()
	}
}

// classifyReadErr maps a frame-read failure to a wire error. A short
// deadline-exceeded read becomes Timeout; anything else (malformed
// length, truncated body, oversized frame) becomes BadRequest/TooLarge.
func classifyReadErr(err error) *protocol.ErrInfo {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return &protocol.ErrInfo{Kind: protocol.KindTimeout, Message: "request deadline exceeded"}
	}
	if err == protocolTooLargeSentinel() {
		return &protocol.ErrInfo{Kind: protocol.KindTooLarge, Message: "payload exceeds 16 MiB"}
	}
	return &protocol.ErrInfo{Kind: protocol.KindBadRequest, Message: "malformed request frame"}
}

// protocolTooLargeSentinel exists only to let classifyReadErr compare
// against protocol.ErrTooLarge without importing it twice in the same
// expression; kept as a tiny indirection so the comparison reads clearly.
func protocolTooLargeSentinel() error { return protocol.ErrTooLarge }

// Stop transitions Serving -> Draining -> Stopped: stops accepting new
// connections, waits (bounded by ctx) for in-flight requests to finish,
// removes the socket file, and releases the start-up lock.
func (s *Server) Stop(ctx context.Context) error {
	transitioned := s.state.CompareAndSwap(int32(StateServing), int32(StateDraining)) ||
		s.state.CompareAndSwap(int32(StateStarting), int32(StateDraining))
	if !transitioned {
		// Another caller already owns the shutdown sequence (e.g. a
		// Shutdown request raced a signal); just wait for it to finish.
		select {
		case <-s.stoppedCh:
		case <-ctx.Done():
		}
		return nil
	}

	close(s.shutdownCh)
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln != nil {
		ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("stop: in-flight requests did not drain before deadline")
	}

	if err := sockpath.CleanupSocketDir(s.socketPath); err != nil {
		s.logger.Error("stop: cleanup socket", "err", err)
	}
	s.mu.Lock()
	if s.lock != nil {
		_ = s.lock.Unlock()
	}
	s.mu.Unlock()

	s.setState(StateStopped)
	close(s.stoppedCh)
	s.logger.Info("daemon stopped")
	return nil
}

// probePing dials path and issues a Ping, returning true only if a valid
// Pong-shaped response comes back quickly. Used by Start to distinguish a
// live daemon's socket from a stale leftover one.
func probePing(ctx context.Context, path string) bool {
	dialCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "unix", path)
	if err != nil {
		return false
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(300 * time.Millisecond))
	if err := protocol.WriteRequest(conn, &protocol.Request{Op: protocol.OpPing}); err != nil {
		return false
	}
	resp, err := protocol.ReadResponse(conn)
	if err != nil {
		return false
	}
	return resp.Err == nil
}
