package match

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/kavramlab/kavram-api/internal/domain"
)

// BoardItem is one entry of a rendered board: the item's key and whether
// its pair has already been matched.
type BoardItem struct {
	Key     string
	Matched bool
}

// SessionState is a consistent snapshot of everything a presentation layer
// needs to render a session, taken under a single lock acquisition.
type SessionState struct {
	SessionID     uuid.UUID
	RoundID       uuid.UUID
	Score         int
	PairCount     int
	RoundComplete bool

	// Concepts and Meanings are in display order.
	Concepts []BoardItem
	Meanings []BoardItem

	// SelectedConcept and SelectedMeaning are empty when nothing is
	// selected on that side.
	SelectedConcept string
	SelectedMeaning string
}

// Session owns one player's game: the current round, the session-scoped
// score, and the random source used to shuffle boards. Every exported
// operation takes the session lock exactly once, so a user action
// (selection, resolution, and the score update it causes) is a single
// critical section. Sessions are explicit values owned by the caller;
// the package keeps no global state.
type Session struct {
	mu sync.Mutex

	id    uuid.UUID
	rng   *rand.Rand
	score int
	round *Round
}

// NewSession creates an empty session. Start must be called before any
// game operation. Returns an error if the ID is nil or rng is nil.
func NewSession(id uuid.UUID, rng *rand.Rand) (*Session, error) {
	if id == uuid.Nil {
		return nil, domain.ErrInvalidID
	}
	if rng == nil {
		return nil, ErrNilRand
	}

	return &Session{
		id:  id,
		rng: rng,
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Score returns the current session score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Start creates the session's first round over the given pair set.
// Returns ErrAlreadyStarted if the session already has a round.
func (s *Session) Start(pairs []domain.Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round != nil {
		return ErrAlreadyStarted
	}

	round, err := NewRound(pairs, s.rng)
	if err != nil {
		return err
	}

	s.round = round
	return nil
}

// SelectConcept forwards a concept selection to the current round and
// applies the score update for a match.
func (s *Session) SelectConcept(key string) (Resolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(key, true)
}

// SelectMeaning forwards a meaning selection to the current round and
// applies the score update for a match.
func (s *Session) SelectMeaning(key string) (Resolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(key, false)
}

// selectLocked performs a selection while the session lock is held.
func (s *Session) selectLocked(key string, concept bool) (Resolution, error) {
	if s.round == nil {
		return Resolution{}, ErrNoActiveRound
	}

	var (
		res Resolution
		err error
	)
	if concept {
		res, err = s.round.SelectConcept(key)
	} else {
		res, err = s.round.SelectMeaning(key)
	}
	if err != nil {
		return Resolution{}, err
	}

	if res.Outcome == OutcomeMatched {
		s.score++
	}

	return res, nil
}

// StartNewRound replaces the current round with a fresh one over a newly
// generated pair set. The score carries over. The previous round object is
// replaced, never mutated. Returns an error if the session has not been
// started or the pair set is invalid; on error the current round and score
// stay untouched.
func (s *Session) StartNewRound(pairs []domain.Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil {
		return ErrNoActiveRound
	}

	round, err := NewRound(pairs, s.rng)
	if err != nil {
		return err
	}

	s.round = round
	return nil
}

// Reset zeroes the score and restarts the session with a fresh round over
// the same pair set: new independent shuffles, no matched items, no
// selections. No generation call is involved.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil {
		return ErrNoActiveRound
	}

	round, err := NewRound(s.round.pairs, s.rng)
	if err != nil {
		return err
	}

	s.round = round
	s.score = 0
	return nil
}

// Snapshot returns a consistent view of the session for rendering.
func (s *Session) Snapshot() (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil {
		return SessionState{}, ErrNoActiveRound
	}

	r := s.round
	state := SessionState{
		SessionID:     s.id,
		RoundID:       r.id,
		Score:         s.score,
		PairCount:     r.Len(),
		RoundComplete: r.IsComplete(),
		Concepts:      make([]BoardItem, 0, r.Len()),
		Meanings:      make([]BoardItem, 0, r.Len()),
	}

	for _, key := range r.conceptOrder {
		state.Concepts = append(state.Concepts, BoardItem{
			Key:     key,
			Matched: r.IsConceptMatched(key),
		})
	}
	for _, key := range r.meaningOrder {
		state.Meanings = append(state.Meanings, BoardItem{
			Key:     key,
			Matched: r.IsMeaningMatched(key),
		})
	}

	state.SelectedConcept = r.selectedConcept
	state.SelectedMeaning = r.selectedMeaning

	return state, nil
}

// CurrentRoundID returns the ID of the active round.
func (s *Session) CurrentRoundID() (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil {
		return uuid.Nil, ErrNoActiveRound
	}
	return s.round.id, nil
}

// CurrentPairs returns a copy of the active round's pair set.
func (s *Session) CurrentPairs() ([]domain.Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil {
		return nil, ErrNoActiveRound
	}
	return s.round.Pairs(), nil
}
