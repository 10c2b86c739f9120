// Package pdftext extracts plain text from PDF documents so their content
// can feed concept generation like any other source material.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kavramlab/kavram-api/internal/extract"
	"github.com/kavramlab/kavram-api/internal/platform/logger"
	"github.com/ledongthuc/pdf"
)

// Extractor implements extract.PDFTextExtractor on top of the ledongthuc/pdf
// parser.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a PDF text extractor. If log is nil, a default logger
// will be used.
func NewExtractor(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}

	return &Extractor{
		logger: log.With(slog.String("component", "pdf_extractor")),
	}
}

// Ensure Extractor implements extract.PDFTextExtractor interface
var _ extract.PDFTextExtractor = (*Extractor)(nil)

// ExtractText implements extract.PDFTextExtractor.ExtractText. Runs of
// whitespace in the extracted text are collapsed to single spaces.
func (e *Extractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	// The underlying parser panics on malformed input instead of returning
	// an error, so recover and report such files as unreadable.
	defer func() {
		if r := recover(); r != nil {
			log.Warn("pdf parser panicked", slog.Any("cause", r))
			text = ""
			err = fmt.Errorf("%w: %v", extract.ErrUnreadablePDF, r)
		}
	}()

	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", extract.ErrUnreadablePDF)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", extract.ErrUnreadablePDF, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", extract.ErrUnreadablePDF, err)
	}

	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", extract.ErrUnreadablePDF, err)
	}

	text = strings.Join(strings.Fields(string(raw)), " ")
	if text == "" {
		return "", fmt.Errorf("%w: document contains no extractable text", extract.ErrNoTextContent)
	}

	log.Debug("pdf text extracted",
		slog.Int("bytes", len(data)),
		slog.Int("chars", len(text)))

	return text, nil
}
