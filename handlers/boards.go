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

type BoardHandler struct {
	cfg     cliparse.Config
	rounds  *game.Rounds
	words   *game.Words
	boards  *game.Boards
	players *game.Players
}

func NewBoardHandler(store storage.Store, cfg cliparse.Config) *BoardHandler {
	return &BoardHandler{
		cfg:     cfg,
		rounds:  game.NewRounds(store),
		words:   game.NewWords(store),
		boards:  game.NewBoards(store),
		players: game.NewPlayers(store),
	}
}

// withBingo attaches the bingo evaluation every board response carries.
func withBingo(board models.Board) models.BoardWithBingo {
	bingo := game.CheckBingo(board.Marked, board.Size)
	return models.BoardWithBingo{
		Board:      board,
		HasBingo:   bingo.HasBingo,
		BingoLines: bingo.Lines,
	}
}

// CreateBoard handles POST /rounds/{id}/boards
//
// Lazily deals the caller's board from the round's vote-ranked words.
// Requires the round to be in the playing phase. If a board already
// exists, the existing one comes back unchanged.
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id is required")
		return
	}

	playerName, ok := requirePlayer(w, r, h.players, roundID)
	if !ok {
		return
	}

	round, err := h.rounds.Get(r.Context(), roundID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if round.Status != models.StatusPlaying {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Boards are only dealt while the round is playing")
		return
	}

	words, err := h.words.ListByVotes(r.Context(), roundID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	texts := make([]string, len(words))
	for i, word := range words {
		texts[i] = word.Text
	}

	board, err := h.boards.Create(r.Context(), roundID, playerName, texts, round.BoardSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("board dealt", "round_id", roundID, "player", playerName)

	middleware.JSONResponse(w, http.StatusCreated, withBingo(board))
}

// GetBoard handles GET /rounds/{id}/boards/{player}
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	playerName := r.PathValue("player")
	if roundID == "" || playerName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id and player are required")
		return
	}

	board, err := h.boards.Get(r.Context(), roundID, playerName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, withBingo(board))
}

// MarkCell handles POST /rounds/{id}/boards/{player}/mark
func (h *BoardHandler) MarkCell(w http.ResponseWriter, r *http.Request) {
	h.setCell(w, r, true)
}

// UnmarkCell handles POST /rounds/{id}/boards/{player}/unmark
func (h *BoardHandler) UnmarkCell(w http.ResponseWriter, r *http.Request) {
	h.setCell(w, r, false)
}

func (h *BoardHandler) setCell(w http.ResponseWriter, r *http.Request, value bool) {
	roundID := r.PathValue("id")
	playerName := r.PathValue("player")
	if roundID == "" || playerName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id and player are required")
		return
	}

	authName, ok := requirePlayer(w, r, h.players, roundID)
	if !ok {
		return
	}
	if authName != playerName {
		middleware.ErrorResponse(w, http.StatusForbidden, "Cannot mark another player's board")
		return
	}

	var req models.MarkCellRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var (
		board models.Board
		err   error
	)
	if value {
		board, err = h.boards.MarkCell(r.Context(), roundID, playerName, req.CellIndex)
	} else {
		board, err = h.boards.UnmarkCell(r.Context(), roundID, playerName, req.CellIndex)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("cell updated", "round_id", roundID, "player", playerName,
		"cell", req.CellIndex, "marked", value)

	middleware.JSONResponse(w, http.StatusOK, withBingo(board))
}
