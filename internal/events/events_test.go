package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubHandler records every event it receives and returns a fixed error.
type stubHandler struct {
	lastEvent *GameEvent
	err       error
	calls     int
}

func (h *stubHandler) HandleEvent(ctx context.Context, event *GameEvent) error {
	h.lastEvent = event
	h.calls++
	return h.err
}

func TestNewRoundCompletedEvent(t *testing.T) {
	sessionID := uuid.New()
	roundID := uuid.New()

	event := NewRoundCompletedEvent(sessionID, roundID)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, EventRoundCompleted, event.Type)
	assert.Equal(t, sessionID, event.SessionID)
	assert.Equal(t, roundID, event.RoundID)
	assert.WithinDuration(t, time.Now(), event.EmittedAt, 2*time.Second)
}

func TestStubHandlerContract(t *testing.T) {
	handler := &stubHandler{}
	event := NewRoundCompletedEvent(uuid.New(), uuid.New())

	assert.NoError(t, handler.HandleEvent(context.Background(), event))
	assert.Equal(t, 1, handler.calls)
	assert.Equal(t, event, handler.lastEvent)

	wantErr := errors.New("handler error")
	handler.err = wantErr

	assert.Equal(t, wantErr, handler.HandleEvent(context.Background(), event))
	assert.Equal(t, 2, handler.calls)
}
