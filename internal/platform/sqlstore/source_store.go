package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kavramlab/kavram-api/internal/domain"
	"github.com/kavramlab/kavram-api/internal/platform/logger"
	"github.com/kavramlab/kavram-api/internal/store"
)

// SourceStore implements the store.SourceStore interface on top of a SQL
// database. The catalog is append-only, so the surface is insert and read.
type SourceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSourceStore creates a new SQL implementation of the SourceStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller. If logger is nil, a default logger
// will be used.
func NewSourceStore(db store.DBTX, logger *slog.Logger) *SourceStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SourceStore{
		db:     db,
		logger: logger.With(slog.String("component", "source_store")),
	}
}

// Ensure SourceStore implements store.SourceStore interface
var _ store.SourceStore = (*SourceStore)(nil)

// Save implements store.SourceStore.Save
// It persists a new source to the catalog, handling domain validation.
// Returns validation errors from the domain Source if data is invalid.
// Returns store.ErrDuplicate if a source with the same ID already exists.
func (s *SourceStore) Save(ctx context.Context, source *domain.Source) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := source.Validate(); err != nil {
		log.Warn("source validation failed during save",
			slog.String("error", err.Error()),
			slog.String("source_id", source.ID.String()))
		return err
	}

	query := `
		INSERT INTO sources (id, title, content, source_type, archive_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		source.ID,
		source.Title,
		source.Content,
		string(source.Type),
		source.ArchiveKey,
		source.CreatedAt.Unix(),
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate source ID during save",
				slog.String("source_id", source.ID.String()))
			return fmt.Errorf("%w: source with ID %s already exists",
				store.ErrDuplicate, source.ID)
		}

		log.Error("failed to save source",
			slog.String("error", err.Error()),
			slog.String("source_id", source.ID.String()))
		return MapError(err)
	}

	log.Info("source saved successfully",
		slog.String("source_id", source.ID.String()),
		slog.String("source_type", string(source.Type)),
		slog.Int("content_length", len(source.Content)))
	return nil
}

// GetByID implements store.SourceStore.GetByID
// It retrieves a source by its unique ID.
// Returns store.ErrSourceNotFound if the source does not exist.
func (s *SourceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Source, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving source by ID", slog.String("source_id", id.String()))

	query := `
		SELECT id, title, content, source_type, archive_key, created_at
		FROM sources
		WHERE id = $1
	`

	source, err := scanSource(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("source not found", slog.String("source_id", id.String()))
			return nil, store.ErrSourceNotFound
		}
		log.Error("failed to get source by ID",
			slog.String("error", err.Error()),
			slog.String("source_id", id.String()))
		return nil, MapError(err)
	}

	log.Debug("source retrieved successfully",
		slog.String("source_id", id.String()),
		slog.String("source_type", string(source.Type)))
	return source, nil
}

// List implements store.SourceStore.List
// It retrieves all catalog sources ordered newest first.
// Returns an empty slice when the catalog is empty.
func (s *SourceStore) List(ctx context.Context) ([]*domain.Source, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, content, source_type, archive_key, created_at
		FROM sources
		ORDER BY created_at DESC, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query sources", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var sources []*domain.Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			log.Error("failed to scan source row", slog.String("error", err.Error()))
			return nil, err
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no sources found
	if sources == nil {
		sources = []*domain.Source{}
	}

	log.Debug("listed sources", slog.Int("count", len(sources)))
	return sources, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSource reads one sources row. Timestamps are stored as unix seconds
// so the same column type works on both drivers.
func scanSource(row rowScanner) (*domain.Source, error) {
	var (
		source      domain.Source
		sourceType  string
		createdUnix int64
	)

	err := row.Scan(
		&source.ID,
		&source.Title,
		&source.Content,
		&sourceType,
		&source.ArchiveKey,
		&createdUnix,
	)
	if err != nil {
		return nil, err
	}

	source.Type = domain.SourceType(sourceType)
	source.CreatedAt = time.Unix(createdUnix, 0).UTC()
	return &source, nil
}
