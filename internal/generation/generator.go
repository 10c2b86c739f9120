package generation

import (
	"context"

	"github.com/kavramlab/kavram-api/internal/domain"
)

// PairGenerator defines the interface for deriving concept/meaning pairs
// from study material. This interface serves as a boundary between the
// application core and external AI/LLM services, following the hexagonal
// architecture pattern.
type PairGenerator interface {
	// GeneratePairs derives count concept/meaning pairs from the given
	// source text. Parsing is all-or-nothing: either every returned pair
	// is valid and the set carries no duplicate concept or meaning keys,
	// or an error is returned and no pairs are.
	//
	// Parameters:
	//   - ctx: Context for the operation, which can be used for cancellation
	//   - sourceText: The study material to derive pairs from
	//   - count: How many pairs to request from the model
	//
	// Returns:
	//   - A slice of domain.Pair values representing the generated pairs
	//   - An error if generation fails for any reason (see errors.go for specific types)
	GeneratePairs(ctx context.Context, sourceText string, count int) ([]domain.Pair, error)
}
