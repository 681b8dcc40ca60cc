// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/danielhkuo/korpo-bingo/cliparse"
	"github.com/danielhkuo/korpo-bingo/game"
	"github.com/danielhkuo/korpo-bingo/middleware"
	"github.com/danielhkuo/korpo-bingo/models"
	"github.com/danielhkuo/korpo-bingo/storage"
)

type WordHandler struct {
	cfg     cliparse.Config
	words   *game.Words
	players *game.Players
}

func NewWordHandler(store storage.Store, cfg cliparse.Config) *WordHandler {
	return &WordHandler{
		cfg:     cfg,
		words:   game.NewWords(store),
		players: game.NewPlayers(store),
	}
}

// SubmitWord handles POST /rounds/{id}/words
func (h *WordHandler) SubmitWord(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id is required")
		return
	}

	playerName, ok := requirePlayer(w, r, h.players, roundID)
	if !ok {
		return
	}

	var req models.SubmitWordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	word, err := h.words.Submit(r.Context(), game.SubmitWordInput{
		RoundID:     roundID,
		WordID:      uuid.NewString(),
		Text:        req.Text,
		SubmittedBy: playerName,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("word submitted", "round_id", roundID, "word_id", word.WordID, "player", playerName)

	middleware.JSONResponse(w, http.StatusCreated, word)
}

// ListWords handles GET /rounds/{id}/words
//
// ?sort=votes returns the vote-ranked order used for board generation.
func (h *WordHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id is required")
		return
	}

	var (
		words []models.Word
		err   error
	)
	if r.URL.Query().Get("sort") == "votes" {
		words, err = h.words.ListByVotes(r.Context(), roundID)
	} else {
		words, err = h.words.ListByRound(r.Context(), roundID)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, words)
}

// Vote handles POST /rounds/{id}/words/{wordId}/vote
func (h *WordHandler) Vote(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	wordID := r.PathValue("wordId")
	if roundID == "" || wordID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id and word id are required")
		return
	}

	playerName, ok := requirePlayer(w, r, h.players, roundID)
	if !ok {
		return
	}

	if err := h.words.Vote(r.Context(), roundID, wordID, playerName); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("vote cast", "round_id", roundID, "word_id", wordID, "player", playerName)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Unvote handles POST /rounds/{id}/words/{wordId}/unvote
func (h *WordHandler) Unvote(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	wordID := r.PathValue("wordId")
	if roundID == "" || wordID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id and word id are required")
		return
	}

	playerName, ok := requirePlayer(w, r, h.players, roundID)
	if !ok {
		return
	}

	if err := h.words.Unvote(r.Context(), roundID, wordID, playerName); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("vote withdrawn", "round_id", roundID, "word_id", wordID, "player", playerName)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// DeleteWord handles DELETE /rounds/{id}/words/{wordId}
//
// Only the submitter may remove a word.
func (h *WordHandler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	wordID := r.PathValue("wordId")
	if roundID == "" || wordID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id and word id are required")
		return
	}

	playerName, ok := requirePlayer(w, r, h.players, roundID)
	if !ok {
		return
	}

	if err := h.words.Remove(r.Context(), roundID, wordID, playerName); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("word removed", "round_id", roundID, "word_id", wordID, "player", playerName)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
