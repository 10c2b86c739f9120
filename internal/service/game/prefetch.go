package game

import (
	"context"

	"github.com/google/uuid"

	"github.com/kavramlab/kavram-api/internal/events"
)

// Ensure Service can subscribe to game events
var _ events.EventHandler = (*Service)(nil)

// HandleEvent starts background generation of the next round's pair set
// when a round completes. The work runs in its own goroutine so the
// emitter's synchronous dispatch returns immediately.
func (s *Service) HandleEvent(ctx context.Context, event *events.GameEvent) error {
	if event == nil || event.Type != events.EventRoundCompleted {
		return nil
	}
	if !s.cfg.PrefetchNextRound {
		return nil
	}

	s.prefetchWG.Add(1)
	go func() {
		defer s.prefetchWG.Done()
		s.prefetchRound(event.SessionID, event.RoundID)
	}()

	return nil
}

// prefetchRound generates a pair set for the round after roundID and
// offers it to the session. Any failure or staleness is logged at DEBUG
// and discarded: errors only ever surface on explicit user actions.
func (s *Service) prefetchRound(sessionID, roundID uuid.UUID) {
	log := s.logger.With("session_id", sessionID, "round_id", roundID)

	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		log.Debug("prefetch skipped: session gone")
		return
	}

	current, err := entry.session.CurrentRoundID()
	if err != nil || current != roundID {
		log.Debug("prefetch skipped: round already changed")
		return
	}

	pairs, err := s.generate(s.prefetchCtx, entry.sourceText)
	if err != nil {
		log.Debug("prefetch generation failed", "error", err)
		return
	}

	if !s.offerPrefetched(sessionID, entry, roundID, pairs) {
		log.Debug("prefetch dropped: session gone or round changed")
		return
	}

	log.Debug("prefetched next round", "pairs", len(pairs))
}
