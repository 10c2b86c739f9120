package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kavramlab/kavram-api/internal/domain"
)

// SourceStore defines the interface for source catalog persistence.
// The catalog is append-only: sources are saved and read back, never
// updated or deleted.
type SourceStore interface {
	// Save stores a new source in the catalog.
	// It handles domain validation internally.
	// Returns validation errors from the domain Source if data is invalid,
	// or ErrDuplicate if a source with the same ID already exists.
	Save(ctx context.Context, source *domain.Source) error

	// GetByID retrieves a source by its unique ID.
	// Returns ErrSourceNotFound if the source does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Source, error)

	// List retrieves every saved source, newest first.
	// Returns an empty slice when the catalog is empty.
	List(ctx context.Context) ([]*domain.Source, error)
}
