package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kavramlab/kavram-api/internal/api/shared"
	"github.com/kavramlab/kavram-api/internal/platform/logger"
	"github.com/kavramlab/kavram-api/internal/redact"
	"github.com/kavramlab/kavram-api/internal/service/game"
	"github.com/kavramlab/kavram-api/internal/service/session"
)

// maxUploadBytes caps the size of an uploaded document body.
const maxUploadBytes = 20 << 20

// GameService defines the game operations the handler depends on.
type GameService interface {
	StartFromText(ctx context.Context, text string, opts game.StartOptions) (*game.Snapshot, error)
	StartFromYouTube(ctx context.Context, url string, opts game.StartOptions) (*game.Snapshot, error)
	StartFromPDF(
		ctx context.Context,
		file io.Reader,
		size int64,
		filename string,
		opts game.StartOptions,
	) (*game.Snapshot, error)
	StartFromSource(ctx context.Context, sourceID uuid.UUID) (*game.Snapshot, error)
	State(ctx context.Context, sessionID uuid.UUID) (*game.Snapshot, error)
	SelectConcept(ctx context.Context, sessionID uuid.UUID, key string) (*game.SelectionOutcome, error)
	SelectMeaning(ctx context.Context, sessionID uuid.UUID, key string) (*game.SelectionOutcome, error)
	NewRound(ctx context.Context, sessionID uuid.UUID) (*game.Snapshot, error)
	Reset(ctx context.Context, sessionID uuid.UUID) (*game.Snapshot, error)
	End(ctx context.Context, sessionID uuid.UUID) error
}

var _ GameService = (*game.Service)(nil)

// GameHandler handles game lifecycle HTTP requests.
type GameHandler struct {
	games  GameService
	tokens session.TokenService
	logger *slog.Logger
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(games GameService, tokens session.TokenService, log *slog.Logger) *GameHandler {
	if log == nil {
		log = slog.Default()
	}
	return &GameHandler{
		games:  games,
		tokens: tokens,
		logger: log,
	}
}

// StartGame handles POST /api/games requests. It starts a game over pasted
// text or a YouTube URL, depending on source_type.
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	var req StartGameRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	opts := game.StartOptions{Save: req.Save, Title: req.Title}

	var (
		snap *game.Snapshot
		err  error
	)
	switch req.SourceType {
	case "text":
		if strings.TrimSpace(req.Text) == "" {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Text is required for text sources")
			return
		}
		snap, err = h.games.StartFromText(r.Context(), req.Text, opts)
	case "youtube":
		if strings.TrimSpace(req.URL) == "" {
			shared.RespondWithError(w, r, http.StatusBadRequest, "URL is required for youtube sources")
			return
		}
		snap, err = h.games.StartFromYouTube(r.Context(), req.URL, opts)
	default:
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid source type")
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondStarted(w, r, snap)
}

// StartGamePDF handles POST /api/games/pdf requests. The document arrives as
// a multipart upload under the form field "file", with optional "save" and
// "title" fields.
func (h *GameHandler) StartGamePDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			shared.RespondWithError(
				w, r, http.StatusRequestEntityTooLarge, "Uploaded file is too large",
			)
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "A document upload named 'file' is required")
		return
	}
	defer func() { _ = file.Close() }()

	save, _ := strconv.ParseBool(r.FormValue("save"))
	opts := game.StartOptions{Save: save, Title: r.FormValue("title")}

	snap, err := h.games.StartFromPDF(r.Context(), file, header.Size, header.Filename, opts)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondStarted(w, r, snap)
}

// StartGameFromSource handles POST /api/games/from-source/{id} requests,
// replaying a saved catalog source.
func (h *GameHandler) StartGameFromSource(w http.ResponseWriter, r *http.Request) {
	sourceID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	snap, err := h.games.StartFromSource(r.Context(), sourceID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.respondStarted(w, r, snap)
}

// GetCurrentGame handles GET /api/games/current requests.
func (h *GameHandler) GetCurrentGame(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSessionID(w, r)
	if !ok {
		return
	}

	snap, err := h.games.State(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(snap))
}

// SelectConcept handles POST /api/games/select-concept requests.
func (h *GameHandler) SelectConcept(w http.ResponseWriter, r *http.Request) {
	h.handleSelection(w, r, h.games.SelectConcept)
}

// SelectMeaning handles POST /api/games/select-meaning requests.
func (h *GameHandler) SelectMeaning(w http.ResponseWriter, r *http.Request) {
	h.handleSelection(w, r, h.games.SelectMeaning)
}

// StartNewRound handles POST /api/games/rounds requests. The score carries
// over into the new round.
func (h *GameHandler) StartNewRound(w http.ResponseWriter, r *http.Request) {
	h.handleRoundOp(w, r, h.games.NewRound)
}

// ResetGame handles POST /api/games/reset requests. The current pair set is
// reshuffled and the score returns to zero.
func (h *GameHandler) ResetGame(w http.ResponseWriter, r *http.Request) {
	h.handleRoundOp(w, r, h.games.Reset)
}

// EndGame handles DELETE /api/games requests.
func (h *GameHandler) EndGame(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSessionID(w, r)
	if !ok {
		return
	}

	if err := h.games.End(r.Context(), sessionID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) handleSelection(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, sessionID uuid.UUID, key string) (*game.SelectionOutcome, error),
) {
	sessionID, ok := requireSessionID(w, r)
	if !ok {
		return
	}

	var req SelectionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	outcome, err := apply(r.Context(), sessionID, req.Key)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, selectionToResponse(outcome))
}

func (h *GameHandler) handleRoundOp(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, sessionID uuid.UUID) (*game.Snapshot, error),
) {
	sessionID, ok := requireSessionID(w, r)
	if !ok {
		return
	}

	snap, err := op(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(snap))
}

// respondStarted issues a session token for the freshly started game and
// writes the 201 response with token and initial state.
func (h *GameHandler) respondStarted(w http.ResponseWriter, r *http.Request, snap *game.Snapshot) {
	token, err := h.tokens.Issue(r.Context(), snap.Session.SessionID)
	if err != nil {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Error("failed to issue session token",
			"error", redact.Error(err),
			"session_id", snap.Session.SessionID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to issue session token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, StartGameResponse{
		Token: token,
		State: stateToResponse(snap),
	})
}
