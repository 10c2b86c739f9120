package domain

import (
	"errors"
	"strings"
)

// Common validation errors for Pair
var (
	ErrEmptyConcept = errors.New("pair concept cannot be empty")
	ErrEmptyMeaning = errors.New("pair meaning cannot be empty")
)

// Pair is a single matchable item of a game board: a concept and the
// meaning that belongs to it. Pairs are value objects and are never
// mutated after creation.
type Pair struct {
	Concept string `json:"concept"`
	Meaning string `json:"meaning"`
}

// NewPair creates a Pair from the given concept and meaning.
// Surrounding whitespace is trimmed. Returns an error if either
// side is empty after trimming.
func NewPair(concept, meaning string) (Pair, error) {
	p := Pair{
		Concept: strings.TrimSpace(concept),
		Meaning: strings.TrimSpace(meaning),
	}

	if err := p.Validate(); err != nil {
		return Pair{}, err
	}

	return p, nil
}

// Validate checks if the Pair has valid data.
func (p Pair) Validate() error {
	if p.Concept == "" {
		return ErrEmptyConcept
	}

	if p.Meaning == "" {
		return ErrEmptyMeaning
	}

	return nil
}

// ValidatePairSet checks a whole pair set: it must be non-empty, every
// pair must be valid, and both concept keys and meaning keys must be
// unique within the set. Selection addresses items by key string, so a
// duplicated key on either side would make a board ambiguous.
func ValidatePairSet(pairs []Pair) error {
	if len(pairs) == 0 {
		return ErrEmptyPairSet
	}

	concepts := make(map[string]struct{}, len(pairs))
	meanings := make(map[string]struct{}, len(pairs))

	for _, p := range pairs {
		if err := p.Validate(); err != nil {
			return err
		}

		if _, ok := concepts[p.Concept]; ok {
			return ErrDuplicatePair
		}
		if _, ok := meanings[p.Meaning]; ok {
			return ErrDuplicatePair
		}

		concepts[p.Concept] = struct{}{}
		meanings[p.Meaning] = struct{}{}
	}

	return nil
}
