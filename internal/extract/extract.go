// Package extract defines the interfaces for turning external source
// material (video captions, PDF uploads) into plain text that games can be
// generated from. Implementations live in the subpackages; consumers depend
// only on the interfaces defined here.
package extract

import "context"

// VideoTranscript is the text content recovered from a video's caption
// track, along with the metadata needed to title a catalog entry.
type VideoTranscript struct {
	// VideoID is the canonical 11-character video identifier.
	VideoID string

	// Title is the video title as published, empty when it could not be
	// determined.
	Title string

	// Text is the full transcript with cue markup stripped and entities
	// unescaped.
	Text string
}

// TranscriptFetcher retrieves the transcript for a video given its URL or
// bare video ID.
type TranscriptFetcher interface {
	// FetchTranscript downloads and assembles the transcript. Returns
	// ErrInvalidURL when the input is not recognizable as a video
	// reference, ErrTranscriptUnavailable when the video has no usable
	// caption track, and ErrNoTextContent when the track exists but
	// contains no text.
	FetchTranscript(ctx context.Context, url string) (*VideoTranscript, error)
}

// PDFTextExtractor recovers plain text from an uploaded PDF document.
type PDFTextExtractor interface {
	// ExtractText parses the document and returns its text content with
	// whitespace normalized. Returns ErrUnreadablePDF when the bytes do
	// not parse as a PDF and ErrNoTextContent when the document parses
	// but holds no extractable text (for example, scanned images).
	ExtractText(ctx context.Context, data []byte) (string, error)
}
