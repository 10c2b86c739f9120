package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kavramlab/kavram-api/internal/api/shared"
	"github.com/kavramlab/kavram-api/internal/domain"
)

// getSessionIDFromContext extracts the session ID that the session middleware
// attached to the request context.
func getSessionIDFromContext(r *http.Request) (uuid.UUID, bool) {
	sessionID, ok := r.Context().Value(shared.SessionIDContextKey).(uuid.UUID)
	return sessionID, ok
}

// requireSessionID extracts the session ID from the request context, writing
// a 401 response and returning false when it is absent. Handlers mounted
// behind the session middleware use this as their first step.
func requireSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sessionID, ok := getSessionIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Session not found in request context")
		return uuid.Nil, false
	}
	return sessionID, true
}

// getPathUUID extracts and parses a UUID from the named URL path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: missing %s in path", domain.ErrValidation, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s format", domain.ErrInvalidID, paramName)
	}

	return id, nil
}
