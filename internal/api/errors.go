package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kavramlab/kavram-api/internal/api/shared"
	"github.com/kavramlab/kavram-api/internal/domain"
	"github.com/kavramlab/kavram-api/internal/domain/match"
	"github.com/kavramlab/kavram-api/internal/extract"
	"github.com/kavramlab/kavram-api/internal/generation"
	"github.com/kavramlab/kavram-api/internal/service/game"
	"github.com/kavramlab/kavram-api/internal/service/session"
	"github.com/kavramlab/kavram-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptySource),
		errors.Is(err, domain.ErrInvalidSourceType),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, extract.ErrInvalidURL),
		errors.Is(err, match.ErrUnknownKey),
		errors.Is(err, match.ErrNoActiveRound):
		return http.StatusBadRequest

	// Session token errors
	case errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, session.ErrExpiredToken),
		errors.Is(err, session.ErrTokenNotYetValid),
		errors.Is(err, session.ErrWrongTokenType),
		errors.Is(err, session.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, game.ErrSessionNotFound),
		errors.Is(err, store.ErrSourceNotFound):
		return http.StatusNotFound

	// Conflicts with the current round state
	case errors.Is(err, match.ErrAlreadyMatched),
		errors.Is(err, match.ErrRoundComplete):
		return http.StatusConflict

	// The material was received but cannot be played
	case errors.Is(err, extract.ErrTranscriptUnavailable),
		errors.Is(err, extract.ErrNoTextContent),
		errors.Is(err, extract.ErrUnreadablePDF),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrDuplicatePairs),
		errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	// Upstream fetch failures
	case errors.Is(err, extract.ErrFetchFailed):
		return http.StatusBadGateway

	// Temporary generation failures
	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Bad request errors
	case errors.Is(err, domain.ErrEmptySource):
		return "Source material cannot be empty"

	case errors.Is(err, domain.ErrInvalidSourceType):
		return "Invalid source type"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation error"

	case errors.Is(err, extract.ErrInvalidURL):
		return "Invalid YouTube URL"

	case errors.Is(err, match.ErrUnknownKey):
		return "Key is not part of this round"

	case errors.Is(err, match.ErrNoActiveRound):
		return "Game has no active round"

	// Session token errors
	case errors.Is(err, session.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, session.ErrTokenNotYetValid),
		errors.Is(err, session.ErrWrongTokenType),
		errors.Is(err, session.ErrMissingToken):
		return "Invalid token"

	// Not found errors
	case errors.Is(err, game.ErrSessionNotFound):
		return "Game session not found"

	case errors.Is(err, store.ErrSourceNotFound):
		return "Source not found"

	// Conflicts with the current round state
	case errors.Is(err, match.ErrAlreadyMatched):
		return "Item is already matched"

	case errors.Is(err, match.ErrRoundComplete):
		return "Round is already complete"

	// The material was received but cannot be played
	case errors.Is(err, extract.ErrTranscriptUnavailable):
		return "No transcript is available for this video"

	case errors.Is(err, extract.ErrNoTextContent):
		return "No usable text found in the material"

	case errors.Is(err, extract.ErrUnreadablePDF):
		return "The document could not be read"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The material was rejected by content filters"

	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrDuplicatePairs):
		return "Could not build a valid pair set from this material"

	// Upstream failures
	case errors.Is(err, extract.ErrFetchFailed):
		return "Could not reach the video source"

	case errors.Is(err, generation.ErrTransientFailure):
		return "Pair generation is temporarily unavailable, try again"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps the error onto a status code and writes a sanitized
// JSON error response, logging the redacted details. An empty customMessage
// falls back to the mapped safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, customMessage string) {
	statusCode := MapErrorToStatusCode(err)

	message := customMessage
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	shared.RespondWithErrorAndLog(w, r, statusCode, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'StartGameRequest.SourceType' Error:Field validation for 'SourceType' failed on the 'oneof' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
