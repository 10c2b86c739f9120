package extract

import (
	"errors"
	"fmt"
)

// ErrExtractionFailed is the umbrella error every extraction sentinel
// wraps. Callers that do not care which step failed can check for this
// one condition; callers that do can check the specific sentinels.
var ErrExtractionFailed = errors.New("extraction failed")

// Specific extraction failures
var (
	// ErrInvalidURL indicates the input could not be parsed as a video URL
	// or video ID.
	ErrInvalidURL = fmt.Errorf("%w: invalid video URL", ErrExtractionFailed)

	// ErrTranscriptUnavailable indicates the video exists but has no
	// caption track to extract.
	ErrTranscriptUnavailable = fmt.Errorf("%w: transcript unavailable", ErrExtractionFailed)

	// ErrNoTextContent indicates extraction succeeded structurally but
	// produced no usable text.
	ErrNoTextContent = fmt.Errorf("%w: no extractable text content", ErrExtractionFailed)

	// ErrUnreadablePDF indicates the uploaded bytes could not be parsed
	// as a PDF document.
	ErrUnreadablePDF = fmt.Errorf("%w: unreadable PDF document", ErrExtractionFailed)

	// ErrFetchFailed indicates a network or upstream failure while
	// retrieving source material.
	ErrFetchFailed = fmt.Errorf("%w: failed to fetch source material", ErrExtractionFailed)
)
