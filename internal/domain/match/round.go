// Package match implements the concept-matching game: rounds over a pair
// set with independently shuffled boards, selection with toggle semantics,
// and session-scoped scoring. The package is pure state machine code with
// no I/O; all randomness is injected so behavior is reproducible in tests.
package match

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/kavramlab/kavram-api/internal/domain"
)

// Outcome describes the result a selection operation produced.
type Outcome string

// Possible outcome values
const (
	// OutcomePending means no resolution happened: only one side is
	// selected, or a selection was toggled off.
	OutcomePending Outcome = "pending"

	// OutcomeMatched means the selected concept and meaning belong to the
	// same pair.
	OutcomeMatched Outcome = "matched"

	// OutcomeMismatched means the selected concept and meaning belong to
	// different pairs. A mismatch is a transient signal only and leaves no
	// trace in round state.
	OutcomeMismatched Outcome = "mismatched"
)

// Resolution is returned by selection operations. Concept and Meaning are
// set when a resolution (match or mismatch) actually happened this call.
type Resolution struct {
	Outcome       Outcome
	Concept       string
	Meaning       string
	RoundComplete bool
}

// Round is one game board: a pair set, two independently shuffled display
// orders, the set of matched concepts, and the current selections. A Round
// is not safe for concurrent use; Session serializes access to it.
type Round struct {
	id    uuid.UUID
	pairs []domain.Pair

	byConcept map[string]int
	byMeaning map[string]int

	conceptOrder []string
	meaningOrder []string

	// matched holds concept keys only. A meaning's matched status is
	// derived through its pair's concept.
	matched map[string]struct{}

	selectedConcept string
	selectedMeaning string
}

// NewRound creates a Round over the given pair set. The concept board and
// the meaning board are shuffled separately, as two independent uniform
// permutations drawn from rng. Returns an error if the pair set is empty,
// contains an invalid pair, or repeats a concept or meaning key.
func NewRound(pairs []domain.Pair, rng *rand.Rand) (*Round, error) {
	if rng == nil {
		return nil, ErrNilRand
	}

	if err := domain.ValidatePairSet(pairs); err != nil {
		return nil, err
	}

	r := &Round{
		id:        uuid.New(),
		pairs:     append([]domain.Pair(nil), pairs...),
		byConcept: make(map[string]int, len(pairs)),
		byMeaning: make(map[string]int, len(pairs)),
		matched:   make(map[string]struct{}, len(pairs)),
	}

	concepts := make([]string, len(r.pairs))
	meanings := make([]string, len(r.pairs))
	for i, p := range r.pairs {
		r.byConcept[p.Concept] = i
		r.byMeaning[p.Meaning] = i
		concepts[i] = p.Concept
		meanings[i] = p.Meaning
	}

	r.conceptOrder = shuffledKeys(concepts, rng)
	r.meaningOrder = shuffledKeys(meanings, rng)

	return r, nil
}

// shuffledKeys returns a shuffled copy of keys, leaving the input intact.
func shuffledKeys(keys []string, rng *rand.Rand) []string {
	out := append([]string(nil), keys...)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// ID returns the round's unique identifier.
func (r *Round) ID() uuid.UUID {
	return r.id
}

// Len returns the number of pairs on the board.
func (r *Round) Len() int {
	return len(r.pairs)
}

// Pairs returns a copy of the round's pair set.
func (r *Round) Pairs() []domain.Pair {
	return append([]domain.Pair(nil), r.pairs...)
}

// ConceptOrder returns the concept keys in display order.
func (r *Round) ConceptOrder() []string {
	return append([]string(nil), r.conceptOrder...)
}

// MeaningOrder returns the meaning keys in display order.
func (r *Round) MeaningOrder() []string {
	return append([]string(nil), r.meaningOrder...)
}

// IsComplete reports whether every pair has been matched. The pair set is
// non-empty by construction, so a fresh round is never complete.
func (r *Round) IsComplete() bool {
	return len(r.matched) == len(r.pairs)
}

// IsConceptMatched reports whether the given concept has been matched.
// Unknown keys report false.
func (r *Round) IsConceptMatched(key string) bool {
	_, ok := r.matched[key]
	return ok
}

// IsMeaningMatched reports whether the given meaning's pair has been
// matched. The matched set stores concepts only, so this resolves the
// meaning to its pair and checks the pair's concept. Unknown keys report
// false.
func (r *Round) IsMeaningMatched(key string) bool {
	idx, ok := r.byMeaning[key]
	if !ok {
		return false
	}
	return r.IsConceptMatched(r.pairs[idx].Concept)
}

// SelectedConcept returns the currently selected concept key, if any.
func (r *Round) SelectedConcept() (string, bool) {
	return r.selectedConcept, r.selectedConcept != ""
}

// SelectedMeaning returns the currently selected meaning key, if any.
func (r *Round) SelectedMeaning() (string, bool) {
	return r.selectedMeaning, r.selectedMeaning != ""
}

// SelectConcept records a concept selection. Selecting the currently
// selected concept clears that selection; selecting a different concept
// replaces it. When a meaning is also selected the round resolves
// immediately and both selections are cleared, whatever the outcome.
// Invalid selections are rejected without changing any round state.
func (r *Round) SelectConcept(key string) (Resolution, error) {
	if r.IsComplete() {
		return Resolution{}, ErrRoundComplete
	}

	if _, ok := r.byConcept[key]; !ok {
		return Resolution{}, fmt.Errorf("%w: concept %q", ErrUnknownKey, key)
	}

	if r.IsConceptMatched(key) {
		return Resolution{}, fmt.Errorf("%w: concept %q", ErrAlreadyMatched, key)
	}

	if r.selectedConcept == key {
		r.selectedConcept = ""
		return Resolution{Outcome: OutcomePending}, nil
	}

	r.selectedConcept = key
	return r.resolve(), nil
}

// SelectMeaning records a meaning selection with the same toggle and
// resolution semantics as SelectConcept.
func (r *Round) SelectMeaning(key string) (Resolution, error) {
	if r.IsComplete() {
		return Resolution{}, ErrRoundComplete
	}

	if _, ok := r.byMeaning[key]; !ok {
		return Resolution{}, fmt.Errorf("%w: meaning %q", ErrUnknownKey, key)
	}

	if r.IsMeaningMatched(key) {
		return Resolution{}, fmt.Errorf("%w: meaning %q", ErrAlreadyMatched, key)
	}

	if r.selectedMeaning == key {
		r.selectedMeaning = ""
		return Resolution{Outcome: OutcomePending}, nil
	}

	r.selectedMeaning = key
	return r.resolve(), nil
}

// resolve checks the current selections and resolves the attempt when both
// sides are selected. Selections are cleared unconditionally after every
// resolution, match or mismatch.
func (r *Round) resolve() Resolution {
	if r.selectedConcept == "" || r.selectedMeaning == "" {
		return Resolution{Outcome: OutcomePending}
	}

	concept := r.selectedConcept
	meaning := r.selectedMeaning
	r.selectedConcept = ""
	r.selectedMeaning = ""

	pair := r.pairs[r.byConcept[concept]]
	if pair.Meaning == meaning {
		r.matched[concept] = struct{}{}
		return Resolution{
			Outcome:       OutcomeMatched,
			Concept:       concept,
			Meaning:       meaning,
			RoundComplete: r.IsComplete(),
		}
	}

	return Resolution{
		Outcome: OutcomeMismatched,
		Concept: concept,
		Meaning: meaning,
	}
}
