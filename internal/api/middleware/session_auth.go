package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kavramlab/kavram-api/internal/api/shared"
	"github.com/kavramlab/kavram-api/internal/redact"
	"github.com/kavramlab/kavram-api/internal/service/session"
)

// SessionMiddleware authenticates requests against the session token
// service for routes scoped to a running game.
type SessionMiddleware struct {
	tokens session.TokenService
}

// NewSessionMiddleware creates a new SessionMiddleware with the given dependencies.
func NewSessionMiddleware(tokens session.TokenService) *SessionMiddleware {
	return &SessionMiddleware{
		tokens: tokens,
	}
}

// Authenticate validates the Bearer token from the Authorization header and
// adds the game session ID to the request context for authorized requests.
func (m *SessionMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Check Bearer prefix
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		sessionID, err := m.tokens.Validate(r.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, session.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, session.ErrInvalidToken),
				errors.Is(err, session.ErrTokenNotYetValid),
				errors.Is(err, session.ErrWrongTokenType):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate session token", "error", redact.Error(err))
				shared.RespondWithError(
					w,
					r,
					http.StatusInternalServerError,
					"Authentication error",
				)
			}
			return
		}

		// Add session ID to context
		ctx := context.WithValue(r.Context(), shared.SessionIDContextKey, sessionID)

		// Continue with the authenticated request
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the game session ID from the request context.
// Returns the session ID and a boolean indicating if it was found.
func GetSessionID(r *http.Request) (uuid.UUID, bool) {
	sessionID, ok := r.Context().Value(shared.SessionIDContextKey).(uuid.UUID)
	return sessionID, ok
}
