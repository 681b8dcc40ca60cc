// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/korpo-bingo/cliparse"
	"github.com/danielhkuo/korpo-bingo/game"
	"github.com/danielhkuo/korpo-bingo/middleware"
	"github.com/danielhkuo/korpo-bingo/models"
	"github.com/danielhkuo/korpo-bingo/storage"
)

type PlayerHandler struct {
	cfg     cliparse.Config
	players *game.Players
	boards  *game.Boards
}

func NewPlayerHandler(store storage.Store, cfg cliparse.Config) *PlayerHandler {
	return &PlayerHandler{
		cfg:     cfg,
		players: game.NewPlayers(store),
		boards:  game.NewBoards(store),
	}
}

// Register handles POST /rounds/{id}/players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id is required")
		return
	}

	var req models.RegisterPlayerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	player, err := h.players.Register(r.Context(), roundID, req.PlayerName, req.Pin)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("player registered", "round_id", roundID, "player", player.PlayerName)

	middleware.JSONResponse(w, http.StatusCreated, player)
}

// ListPlayers handles GET /rounds/{id}/players
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id is required")
		return
	}

	players, err := h.players.ListByRound(r.Context(), roundID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, players)
}

// VerifyPin handles POST /rounds/{id}/players/verify
//
// Always answers 200 with a valid flag; a wrong PIN is not an error.
func (h *PlayerHandler) VerifyPin(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id is required")
		return
	}

	var req models.VerifyPinRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PlayerName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "player_name is required")
		return
	}

	valid, err := h.players.VerifyPin(r.Context(), roundID, req.PlayerName, req.Pin)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.VerifyPinResponse{Valid: valid})
}

// Leave handles POST /rounds/{id}/players/leave
//
// Removes the caller's board first, then the player record. Rejoining
// registers fresh and deals a new board layout.
func (h *PlayerHandler) Leave(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id is required")
		return
	}

	playerName, ok := requirePlayer(w, r, h.players, roundID)
	if !ok {
		return
	}

	if err := h.boards.Remove(r.Context(), roundID, playerName); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.players.Remove(r.Context(), roundID, playerName); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("player left", "round_id", roundID, "player", playerName)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
