package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType identifies what kind of game event occurred.
type EventType string

// Known event types.
const (
	// EventRoundCompleted is emitted when the last pair of a round is
	// matched.
	EventRoundCompleted EventType = "round_completed"
)

// GameEvent represents something that happened in a game session.
// Events are in-process notifications; they carry identifiers, not
// game state.
type GameEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what happened
	Type EventType `json:"type"`

	// SessionID is the game session the event belongs to
	SessionID uuid.UUID `json:"session_id"`

	// RoundID is the round the event refers to
	RoundID uuid.UUID `json:"round_id"`

	// EmittedAt is the timestamp when the event was created
	EmittedAt time.Time `json:"emitted_at"`
}

// NewRoundCompletedEvent creates a GameEvent announcing that the given
// round of the given session has been completed.
func NewRoundCompletedEvent(sessionID, roundID uuid.UUID) *GameEvent {
	return &GameEvent{
		ID:        uuid.New(),
		Type:      EventRoundCompleted,
		SessionID: sessionID,
		RoundID:   roundID,
		EmittedAt: time.Now().UTC(),
	}
}

// EventHandler reacts to game events. Handlers must return quickly;
// anything slow belongs in a goroutine the handler manages itself.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *GameEvent) error
}

// EventEmitter publishes events to whatever handlers are registered,
// letting services announce progress without knowing who listens.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *GameEvent) error
}
