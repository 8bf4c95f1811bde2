package daemon

import "errors"

// Sentinel errors dispatch maps onto wire Kinds, and that Start/Stop
// callers use to distinguish daemon-level failures from request-level
// ones.
var (
	ErrAlreadyRunning = errors.New("daemon: another instance already owns this socket")
	errBadRequest     = errors.New("daemon: malformed request")
)
