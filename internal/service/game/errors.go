package game

import "errors"

// Common game service errors
var (
	// ErrSessionNotFound indicates the session ID does not belong to any
	// live session: it never existed, was ended, or was evicted after
	// sitting idle past the TTL.
	ErrSessionNotFound = errors.New("game session not found")
)
