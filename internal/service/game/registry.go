package game

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kavramlab/kavram-api/internal/domain"
	"github.com/kavramlab/kavram-api/internal/domain/match"
)

// janitorInterval is how often the expiry sweep runs. Sessions are evicted
// on the first sweep after sitting idle past the configured TTL.
const janitorInterval = time.Minute

// sessionEntry is one registry slot: the live session plus the metadata
// needed to regenerate rounds and render source info. The source fields
// are immutable after registration; lastActive and the prefetch fields are
// guarded by the service mutex.
type sessionEntry struct {
	session    *match.Session
	lastActive time.Time

	sourceText  string
	sourceTitle string
	sourceType  domain.SourceType
	sourceID    uuid.UUID

	// nextPairs is a prefetched pair set valid only while the round it
	// was generated after (nextForRound) is still the current round.
	nextPairs    []domain.Pair
	nextForRound uuid.UUID
}

// touchEntry looks up a session and marks it active.
func (s *Service) touchEntry(sessionID uuid.UUID) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	entry.lastActive = s.now()
	return entry, nil
}

// takePrefetched removes and returns the prefetched pair set if it was
// generated for the given round; otherwise it returns nil.
func (s *Service) takePrefetched(sessionID, roundID uuid.UUID) []domain.Pair {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok || entry.nextForRound != roundID || len(entry.nextPairs) == 0 {
		return nil
	}

	pairs := entry.nextPairs
	entry.nextPairs = nil
	entry.nextForRound = uuid.Nil
	return pairs
}

// clearPrefetched drops any pending prefetched pair set for a session.
func (s *Service) clearPrefetched(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[sessionID]; ok {
		entry.nextPairs = nil
		entry.nextForRound = uuid.Nil
	}
}

// offerPrefetched stores a prefetched pair set on the session entry,
// provided the session still exists, is still the same entry the prefetch
// started from, and its round has not moved on. Reports whether the offer
// was accepted.
func (s *Service) offerPrefetched(
	sessionID uuid.UUID,
	origin *sessionEntry,
	roundID uuid.UUID,
	pairs []domain.Pair,
) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok || entry != origin {
		return false
	}

	current, err := entry.session.CurrentRoundID()
	if err != nil || current != roundID {
		return false
	}

	entry.nextPairs = pairs
	entry.nextForRound = roundID
	return true
}

// RunJanitor sweeps the registry until the context is cancelled, evicting
// sessions idle longer than the configured TTL. Run it in its own
// goroutine.
func (s *Service) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	s.logger.Info("session janitor started",
		"ttl_minutes", s.cfg.SessionTTLMinutes,
		"sweep_interval", janitorInterval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session janitor stopped")
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}

// evictIdle removes every session idle past the TTL and returns how many
// were evicted.
func (s *Service) evictIdle() int {
	ttl := time.Duration(s.cfg.SessionTTLMinutes) * time.Minute
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, entry := range s.sessions {
		if entry.lastActive.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}

	if evicted > 0 {
		s.logger.Info("evicted idle game sessions",
			"count", evicted,
			"remaining", len(s.sessions))
	}

	return evicted
}
