package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kavramlab/kavram-api/internal/domain"
	"github.com/kavramlab/kavram-api/internal/extract"
	"github.com/kavramlab/kavram-api/internal/platform/logger"
	"github.com/kavramlab/kavram-api/internal/store"
)

// Archiver stores the raw bytes of an uploaded document in object storage
// and returns the object key. Implementations live in platform/blob. A nil
// Archiver disables archiving; the catalog works identically without it.
type Archiver interface {
	Archive(ctx context.Context, sourceID uuid.UUID, filename string, data []byte) (string, error)
}

// SourceService provides catalog operations for saved study material.
type SourceService interface {
	// SaveSource constructs, validates and saves a source. A blank title
	// is replaced with a timestamped default.
	SaveSource(
		ctx context.Context,
		title, content string,
		sourceType domain.SourceType,
	) (*domain.Source, error)

	// SavePDFSource saves the extracted text of an uploaded document and,
	// when an archiver is configured, stores the original bytes in object
	// storage. An archive failure is logged and does not fail the save.
	SavePDFSource(
		ctx context.Context,
		title, content, filename string,
		raw []byte,
	) (*domain.Source, error)

	// ListSources returns all saved sources, newest first.
	ListSources(ctx context.Context) ([]*domain.Source, error)

	// GetSource retrieves a source by its ID.
	// Returns store.ErrSourceNotFound when it does not exist.
	GetSource(ctx context.Context, id uuid.UUID) (*domain.Source, error)

	// ResolveContent returns the playable text for a source: youtube
	// sources re-fetch the transcript from the stored URL, text and pdf
	// sources return Content as-is. Extraction errors pass through
	// untouched so callers can map them precisely.
	ResolveContent(ctx context.Context, source *domain.Source) (string, error)
}

// SourceServiceError wraps errors from the source service with context.
type SourceServiceError struct {
	// Operation is the operation that failed (e.g., "save_source", "list_sources")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for SourceServiceError.
func (e *SourceServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("source service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SourceServiceError) Unwrap() error {
	return e.Err
}

// NewSourceServiceError creates a new SourceServiceError. Errors the API
// layer maps onto status codes (not-found, validation) pass through with
// their chain intact instead of being wrapped.
func NewSourceServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, store.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return err
	}

	return &SourceServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// sourceServiceImpl implements the SourceService interface
type sourceServiceImpl struct {
	sources     store.SourceStore
	transcripts extract.TranscriptFetcher
	archiver    Archiver
	logger      *slog.Logger
}

// NewSourceService creates a new SourceService. The archiver may be nil;
// everything else is required.
func NewSourceService(
	sources store.SourceStore,
	transcripts extract.TranscriptFetcher,
	archiver Archiver,
	logger *slog.Logger,
) (SourceService, error) {
	if sources == nil {
		return nil, &SourceServiceError{
			Operation: "create_service",
			Message:   "sources cannot be nil",
		}
	}
	if transcripts == nil {
		return nil, &SourceServiceError{
			Operation: "create_service",
			Message:   "transcripts cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &sourceServiceImpl{
		sources:     sources,
		transcripts: transcripts,
		archiver:    archiver,
		logger:      logger.With("component", "source_service"),
	}, nil
}

// SaveSource constructs, validates and saves a source.
func (s *sourceServiceImpl) SaveSource(
	ctx context.Context,
	title, content string,
	sourceType domain.SourceType,
) (*domain.Source, error) {
	return s.save(ctx, title, content, sourceType, "", nil)
}

// SavePDFSource saves extracted document text and archives the original
// bytes when an archiver is configured.
func (s *sourceServiceImpl) SavePDFSource(
	ctx context.Context,
	title, content, filename string,
	raw []byte,
) (*domain.Source, error) {
	return s.save(ctx, title, content, domain.SourceTypePDF, filename, raw)
}

func (s *sourceServiceImpl) save(
	ctx context.Context,
	title, content string,
	sourceType domain.SourceType,
	filename string,
	raw []byte,
) (*domain.Source, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(title) == "" {
		title = "Untitled source " + time.Now().UTC().Format("2006-01-02 15:04")
	}

	source, err := domain.NewSource(title, content, sourceType)
	if err != nil {
		log.Warn("rejected invalid source",
			"error", err,
			"source_type", sourceType)
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if s.archiver != nil && len(raw) > 0 {
		key, archiveErr := s.archiver.Archive(ctx, source.ID, filename, raw)
		if archiveErr != nil {
			// The catalog entry is still playable from its extracted
			// text, so a lost original is not worth failing the save.
			log.Warn("failed to archive original document",
				"error", archiveErr,
				"source_id", source.ID,
				"filename", filename)
		} else {
			source.ArchiveKey = key
			log.Debug("archived original document",
				"source_id", source.ID,
				"archive_key", key)
		}
	}

	if err := s.sources.Save(ctx, source); err != nil {
		log.Error("failed to save source to catalog",
			"error", err,
			"source_id", source.ID,
			"source_type", sourceType)
		return nil, NewSourceServiceError("save_source", "failed to save source to catalog", err)
	}

	log.Info("source saved to catalog",
		"source_id", source.ID,
		"source_type", source.Type,
		"title", source.Title)

	return source, nil
}

// ListSources returns all saved sources, newest first.
func (s *sourceServiceImpl) ListSources(ctx context.Context) ([]*domain.Source, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sources, err := s.sources.List(ctx)
	if err != nil {
		log.Error("failed to list sources", "error", err)
		return nil, NewSourceServiceError("list_sources", "failed to list sources", err)
	}

	log.Debug("listed sources", "count", len(sources))
	return sources, nil
}

// GetSource retrieves a source by its ID.
func (s *sourceServiceImpl) GetSource(ctx context.Context, id uuid.UUID) (*domain.Source, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	source, err := s.sources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrSourceNotFound) {
			log.Debug("source not found", "source_id", id)
			return nil, err
		}
		log.Error("failed to retrieve source",
			"error", err,
			"source_id", id)
		return nil, NewSourceServiceError("get_source", "failed to retrieve source", err)
	}

	return source, nil
}

// ResolveContent returns the playable text for a source.
func (s *sourceServiceImpl) ResolveContent(
	ctx context.Context,
	source *domain.Source,
) (string, error) {
	if source == nil {
		return "", &SourceServiceError{
			Operation: "resolve_content",
			Message:   "source cannot be nil",
		}
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	switch source.Type {
	case domain.SourceTypeYouTube:
		transcript, err := s.transcripts.FetchTranscript(ctx, source.Content)
		if err != nil {
			log.Warn("failed to re-fetch transcript for saved source",
				"error", err,
				"source_id", source.ID)
			return "", err
		}
		log.Debug("resolved youtube source",
			"source_id", source.ID,
			"video_id", transcript.VideoID,
			"chars", len(transcript.Text))
		return transcript.Text, nil

	case domain.SourceTypeText, domain.SourceTypePDF:
		return source.Content, nil

	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSourceType, source.Type)
	}
}
