package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SourceType categorizes where a source's study material came from.
type SourceType string

// Possible source type values
const (
	SourceTypeText    SourceType = "text"
	SourceTypeYouTube SourceType = "youtube"
	SourceTypePDF     SourceType = "pdf"
)

// Common validation errors for Source
var (
	ErrEmptySourceID      = errors.New("source ID cannot be empty")
	ErrEmptySourceTitle   = errors.New("source title cannot be empty")
	ErrEmptySourceContent = errors.New("source content cannot be empty")
	ErrInvalidSourceType  = errors.New("invalid source type")
)

// Source is a saved piece of study material in the catalog. For youtube
// sources Content holds the video URL and the transcript is fetched again
// on replay; for text and pdf sources Content holds the playable text
// itself. ArchiveKey is set only when the original upload was archived to
// object storage. Sources are append-only: once saved they are never
// updated or deleted.
type Source struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Type       SourceType `json:"type"`
	ArchiveKey string     `json:"archive_key,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewSource creates a new Source with the given title, content and type.
// It generates a new UUID for the source ID and sets the creation
// timestamp. Returns an error if validation fails.
func NewSource(title, content string, sourceType SourceType) (*Source, error) {
	source := &Source{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		Type:      sourceType,
		CreatedAt: time.Now().UTC(),
	}

	if err := source.Validate(); err != nil {
		return nil, err
	}

	return source, nil
}

// Validate checks if the Source has valid data.
// Returns an error if any field fails validation.
func (s *Source) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySourceID
	}

	if s.Title == "" {
		return ErrEmptySourceTitle
	}

	if s.Content == "" {
		return ErrEmptySourceContent
	}

	if !isValidSourceType(s.Type) {
		return ErrInvalidSourceType
	}

	return nil
}

// isValidSourceType checks if the given type is a valid SourceType.
func isValidSourceType(sourceType SourceType) bool {
	switch sourceType {
	case SourceTypeText, SourceTypeYouTube, SourceTypePDF:
		return true
	default:
		return false
	}
}
