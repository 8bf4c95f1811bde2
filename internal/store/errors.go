package store

import "errors"

// Sentinel errors the daemon's dispatch loop maps onto wire error kinds.
// Store itself has no notion of the wire protocol; it only needs to
// distinguish these cases from each other and from ordinary internal
// errors.
var (
	ErrInvalidName  = errors.New("store: key fails name syntax")
	ErrInvalidValue = errors.New("store: value contains embedded NUL")
	ErrNotFound     = errors.New("store: key undefined at this scope/pwd")
)
