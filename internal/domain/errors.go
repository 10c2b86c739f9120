package domain

import "errors"

// Sentinel errors shared by the domain types. The API layer maps these to
// HTTP status codes, so new errors here usually mean a new mapping there.
var (
	// ErrValidation marks an entity that failed a validity check. Wrap it
	// with detail about which field was rejected.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID marks a malformed or zero identifier.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyPairSet is returned when a game operation receives a pair
	// set with no pairs in it.
	ErrEmptyPairSet = errors.New("pair set cannot be empty")

	// ErrDuplicatePair is returned when a pair set repeats a concept key
	// or a meaning key.
	ErrDuplicatePair = errors.New("duplicate key in pair set")

	// ErrEmptySource is returned when study material is empty after
	// trimming whitespace.
	ErrEmptySource = errors.New("source material cannot be empty")
)
