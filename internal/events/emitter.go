package events

import (
	"context"
	"log/slog"
	"sync"
)

// SyncEmitter dispatches game events to in-process handlers on the
// caller's goroutine. Handlers are expected to return quickly and run any
// slow work on goroutines they manage themselves.
type SyncEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

// NewSyncEmitter returns an emitter with no handlers registered.
func NewSyncEmitter(logger *slog.Logger) *SyncEmitter {
	return &SyncEmitter{
		logger: logger.With("component", "event_emitter"),
	}
}

// RegisterHandler subscribes a handler to all future events.
func (e *SyncEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	count := len(e.handlers)
	e.mu.Unlock()

	e.logger.Debug("event handler registered", "handler_count", count)
}

// EmitEvent delivers the event to every registered handler in registration
// order. A failing handler does not stop delivery to the rest; the first
// error is returned after all handlers have run.
func (e *SyncEmitter) EmitEvent(ctx context.Context, event *GameEvent) error {
	// Copy under the read lock so a handler registering another handler
	// cannot deadlock or skew iteration.
	e.mu.RLock()
	handlers := make([]EventHandler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	if len(handlers) == 0 {
		e.logger.Debug("dropping event, no handlers registered",
			"event_id", event.ID,
			"event_type", event.Type)
		return nil
	}

	e.logger.Debug("dispatching event",
		"event_id", event.ID,
		"event_type", event.Type,
		"session_id", event.SessionID,
		"handler_count", len(handlers))

	var firstErr error
	for i, handler := range handlers {
		err := handler.HandleEvent(ctx, event)
		if err == nil {
			continue
		}
		e.logger.Error("event handler failed",
			"error", err,
			"handler_index", i,
			"event_id", event.ID,
			"event_type", event.Type)
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
