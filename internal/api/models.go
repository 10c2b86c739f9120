package api

import (
	"time"

	"github.com/kavramlab/kavram-api/internal/domain"
	"github.com/kavramlab/kavram-api/internal/domain/match"
	"github.com/kavramlab/kavram-api/internal/service/game"
)

// Common request/response structures

// StartGameRequest defines the payload for starting a game over pasted text
// or a YouTube video.
type StartGameRequest struct {
	SourceType string `json:"source_type" validate:"required,oneof=text youtube"`
	Text       string `json:"text,omitempty"`
	URL        string `json:"url,omitempty"`
	Save       bool   `json:"save,omitempty"`
	Title      string `json:"title,omitempty"`
}

// SelectionRequest defines the payload for selecting a board item.
type SelectionRequest struct {
	Key string `json:"key" validate:"required,min=1"`
}

// CreateSourceRequest defines the payload for saving material to the
// catalog without starting a game.
type CreateSourceRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"     validate:"required,min=1"`
	SourceType string `json:"source_type" validate:"required,oneof=text youtube pdf"`
}

// BoardItemResponse is one board entry. It exposes the key and whether the
// item's pair has been matched, and nothing that ties a meaning to its
// concept.
type BoardItemResponse struct {
	Key     string `json:"key"`
	Matched bool   `json:"matched"`
}

// SourceInfoResponse describes where a session's material came from.
type SourceInfoResponse struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

// GameStateResponse is the rendered state of a game session.
type GameStateResponse struct {
	SessionID       string              `json:"session_id"`
	Score           int                 `json:"score"`
	PairCount       int                 `json:"pair_count"`
	RoundComplete   bool                `json:"round_complete"`
	Concepts        []BoardItemResponse `json:"concepts"`
	Meanings        []BoardItemResponse `json:"meanings"`
	SelectedConcept string              `json:"selected_concept,omitempty"`
	SelectedMeaning string              `json:"selected_meaning,omitempty"`
	Source          SourceInfoResponse  `json:"source"`
}

// StartGameResponse is returned when a game starts: the session token plus
// the initial state.
type StartGameResponse struct {
	Token string            `json:"token"`
	State GameStateResponse `json:"state"`
}

// ResolvedPairResponse is the pair a resolution settled on.
type ResolvedPairResponse struct {
	Concept string `json:"concept"`
	Meaning string `json:"meaning"`
}

// SelectionResponse is returned for selection endpoints: the outcome of
// the selection plus the state after it. Resolved is present only when the
// selection resolved a concept/meaning attempt.
type SelectionResponse struct {
	Outcome  string                `json:"outcome"`
	Resolved *ResolvedPairResponse `json:"resolved,omitempty"`
	State    GameStateResponse     `json:"state"`
}

// SourceResponse represents a catalog entry.
type SourceResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	SourceType string    `json:"source_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// stateToResponse converts a game snapshot to its response shape.
func stateToResponse(snap *game.Snapshot) GameStateResponse {
	return GameStateResponse{
		SessionID:       snap.Session.SessionID.String(),
		Score:           snap.Session.Score,
		PairCount:       snap.Session.PairCount,
		RoundComplete:   snap.Session.RoundComplete,
		Concepts:        boardToResponse(snap.Session.Concepts),
		Meanings:        boardToResponse(snap.Session.Meanings),
		SelectedConcept: snap.Session.SelectedConcept,
		SelectedMeaning: snap.Session.SelectedMeaning,
		Source: SourceInfoResponse{
			Type:  string(snap.Source.Type),
			Title: snap.Source.Title,
		},
	}
}

// boardToResponse converts one side of the board.
func boardToResponse(items []match.BoardItem) []BoardItemResponse {
	out := make([]BoardItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, BoardItemResponse{Key: item.Key, Matched: item.Matched})
	}
	return out
}

// selectionToResponse converts a selection outcome to its response shape.
func selectionToResponse(outcome *game.SelectionOutcome) SelectionResponse {
	response := SelectionResponse{
		Outcome: string(outcome.Resolution.Outcome),
		State:   stateToResponse(outcome.State),
	}

	if outcome.Resolution.Outcome != match.OutcomePending {
		response.Resolved = &ResolvedPairResponse{
			Concept: outcome.Resolution.Concept,
			Meaning: outcome.Resolution.Meaning,
		}
	}

	return response
}

// sourceToResponse converts a domain.Source to a SourceResponse. Content is
// deliberately not exposed; sources are replayed, not read back.
func sourceToResponse(source *domain.Source) SourceResponse {
	return SourceResponse{
		ID:         source.ID.String(),
		Title:      source.Title,
		SourceType: string(source.Type),
		CreatedAt:  source.CreatedAt,
	}
}
