package match

import "errors"

// Common errors
var (
	// ErrNilRand is returned when a round or session is created without a
	// random source.
	ErrNilRand = errors.New("random source cannot be nil")

	// ErrNoActiveRound is returned when a session operation arrives before
	// the session has been started.
	ErrNoActiveRound = errors.New("session has no active round")

	// ErrAlreadyStarted is returned when Start is called on a session that
	// already has a round.
	ErrAlreadyStarted = errors.New("session already has an active round")

	// ErrRoundComplete is returned for selections on a round that has
	// already been won.
	ErrRoundComplete = errors.New("round is already complete")

	// ErrUnknownKey is returned when a selection names a concept or
	// meaning that is not part of the round.
	ErrUnknownKey = errors.New("key is not part of this round")

	// ErrAlreadyMatched is returned when a selection names an item whose
	// pair has already been matched.
	ErrAlreadyMatched = errors.New("item is already matched")
)
