package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kavramlab/kavram-api/internal/api/shared"
	"github.com/kavramlab/kavram-api/internal/domain"
	"github.com/kavramlab/kavram-api/internal/service"
)

// SourceCatalog defines the catalog operations the handler depends on.
type SourceCatalog interface {
	SaveSource(
		ctx context.Context,
		title, content string,
		sourceType domain.SourceType,
	) (*domain.Source, error)
	ListSources(ctx context.Context) ([]*domain.Source, error)
}

var _ SourceCatalog = (service.SourceService)(nil)

// SourceHandler handles source catalog HTTP requests.
type SourceHandler struct {
	sources SourceCatalog
	logger  *slog.Logger
}

// NewSourceHandler creates a new SourceHandler.
func NewSourceHandler(sources SourceCatalog, log *slog.Logger) *SourceHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SourceHandler{
		sources: sources,
		logger:  log,
	}
}

// ListSources handles GET /api/sources requests, returning saved sources
// newest first. Content is not included; sources are replayed, not read back.
func (h *SourceHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.sources.ListSources(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list sources")
		return
	}

	responses := make([]SourceResponse, 0, len(sources))
	for _, source := range sources {
		responses = append(responses, sourceToResponse(source))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// CreateSource handles POST /api/sources requests, saving material to the
// catalog without starting a game.
func (h *SourceHandler) CreateSource(w http.ResponseWriter, r *http.Request) {
	var req CreateSourceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	source, err := h.sources.SaveSource(
		r.Context(), req.Title, req.Content, domain.SourceType(req.SourceType),
	)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, sourceToResponse(source))
}
