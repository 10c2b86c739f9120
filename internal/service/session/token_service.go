// Package session issues and validates the signed tokens that tie an HTTP
// client to its in-memory game session. Sessions are anonymous, so the token
// carries only the session ID; possession of a valid token is the sole proof
// of ownership.
package session

import (
	"context"

	"github.com/google/uuid"
)

// TokenService defines operations for managing game session tokens.
type TokenService interface {
	// Issue creates a signed token bound to the given session ID.
	// Returns the token string or an error if signing fails.
	Issue(ctx context.Context, sessionID uuid.UUID) (string, error)

	// Validate checks the provided token string and extracts the session ID.
	// Returns the session ID the token was issued for, or an error if
	// validation fails (expired, invalid signature, wrong token type, etc.).
	Validate(ctx context.Context, tokenString string) (uuid.UUID, error)
}
