package domain

import (
	"errors"
	"testing"
)

func TestNewPair(t *testing.T) {
	t.Parallel() // Enable parallel execution
	p, err := NewPair("  osmosis ", " diffusion of water ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if p.Concept != "osmosis" {
		t.Errorf("Expected trimmed concept, got %q", p.Concept)
	}
	if p.Meaning != "diffusion of water" {
		t.Errorf("Expected trimmed meaning, got %q", p.Meaning)
	}

	if _, err := NewPair("  ", "something"); !errors.Is(err, ErrEmptyConcept) {
		t.Errorf("Expected ErrEmptyConcept, got %v", err)
	}
	if _, err := NewPair("something", ""); !errors.Is(err, ErrEmptyMeaning) {
		t.Errorf("Expected ErrEmptyMeaning, got %v", err)
	}
}

func TestValidatePairSet(t *testing.T) {
	t.Parallel() // Enable parallel execution
	testCases := []struct {
		name    string
		pairs   []Pair
		wantErr error
	}{
		{
			name: "valid set",
			pairs: []Pair{
				{Concept: "a", Meaning: "first"},
				{Concept: "b", Meaning: "second"},
			},
			wantErr: nil,
		},
		{
			name:    "empty set",
			pairs:   nil,
			wantErr: ErrEmptyPairSet,
		},
		{
			name: "duplicate concept",
			pairs: []Pair{
				{Concept: "a", Meaning: "first"},
				{Concept: "a", Meaning: "second"},
			},
			wantErr: ErrDuplicatePair,
		},
		{
			name: "duplicate meaning",
			pairs: []Pair{
				{Concept: "a", Meaning: "same"},
				{Concept: "b", Meaning: "same"},
			},
			wantErr: ErrDuplicatePair,
		},
		{
			name: "invalid pair inside set",
			pairs: []Pair{
				{Concept: "a", Meaning: "first"},
				{Concept: "", Meaning: "second"},
			},
			wantErr: ErrEmptyConcept,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePairSet(tc.pairs)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}
