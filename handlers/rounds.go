// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/danielhkuo/korpo-bingo/cliparse"
	"github.com/danielhkuo/korpo-bingo/game"
	"github.com/danielhkuo/korpo-bingo/middleware"
	"github.com/danielhkuo/korpo-bingo/models"
	"github.com/danielhkuo/korpo-bingo/storage"
)

type RoundHandler struct {
	cfg     cliparse.Config
	rounds  *game.Rounds
	words   *game.Words
	boards  *game.Boards
	players *game.Players
}

func NewRoundHandler(store storage.Store, cfg cliparse.Config) *RoundHandler {
	return &RoundHandler{
		cfg:     cfg,
		rounds:  game.NewRounds(store),
		words:   game.NewWords(store),
		boards:  game.NewBoards(store),
		players: game.NewPlayers(store),
	}
}

// CreateRound handles POST /rounds
func (h *RoundHandler) CreateRound(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoundRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	round, err := h.rounds.Create(r.Context(), game.CreateRoundInput{
		RoundID:      uuid.NewString(),
		Name:         req.Name,
		BoardSize:    req.BoardSize,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("round created", "round_id", round.RoundID, "share_code", round.ShareCode)

	middleware.JSONResponse(w, http.StatusCreated, round)
}

// GetRound handles GET /rounds/{id}
func (h *RoundHandler) GetRound(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id is required")
		return
	}

	round, err := h.rounds.Get(r.Context(), roundID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, round)
}

// GetByShareCode handles GET /rounds/by-code/{code}
func (h *RoundHandler) GetByShareCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "share code is required")
		return
	}

	round, err := h.rounds.GetByShareCode(r.Context(), code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, round)
}

// ListRounds handles GET /rounds
func (h *RoundHandler) ListRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.rounds.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, rounds)
}

// DeleteRound handles DELETE /rounds/{id}
func (h *RoundHandler) DeleteRound(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id is required")
		return
	}

	if err := h.rounds.Remove(r.Context(), roundID); err != nil {
		writeDomainError(w, err)
		return
	}

	slog.Info("round deleted", "round_id", roundID)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// UpdateStatus handles POST /rounds/{id}/status
//
// On the transition into playing it also deals a board to every
// registered player from the vote-ranked word list.
func (h *RoundHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id is required")
		return
	}

	if _, ok := requirePlayer(w, r, h.players, roundID); !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Status == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status is required")
		return
	}

	round, err := h.rounds.Get(r.Context(), roundID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.rounds.UpdateStatus(r.Context(), roundID, req.Status); err != nil {
		writeDomainError(w, err)
		return
	}

	if req.Status == models.StatusPlaying {
		if err := h.dealBoards(w, r, round); err != nil {
			return
		}
	}

	slog.Info("round status updated", "round_id", roundID, "status", req.Status)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// dealBoards creates a board for every registered player from the top
// boardSize² words. Board creation is idempotent per player, so a
// retried status request does not reshuffle anyone's board. Writes the
// error response itself on failure.
func (h *RoundHandler) dealBoards(w http.ResponseWriter, r *http.Request, round models.Round) error {
	players, err := h.players.ListByRound(r.Context(), round.RoundID)
	if err != nil {
		writeDomainError(w, err)
		return err
	}
	words, err := h.words.ListByVotes(r.Context(), round.RoundID)
	if err != nil {
		writeDomainError(w, err)
		return err
	}

	totalCells := round.BoardSize * round.BoardSize
	if len(words) > totalCells {
		words = words[:totalCells]
	}
	texts := make([]string, len(words))
	for i, word := range words {
		texts[i] = word.Text
	}

	for _, player := range players {
		if _, err := h.boards.Create(r.Context(), round.RoundID, player.PlayerName, texts, round.BoardSize); err != nil {
			writeDomainError(w, err)
			return err
		}
	}
	return nil
}

// ShareQR handles GET /rounds/{id}/qr
//
// Returns a PNG QR code for the round's join URL, sized for phones.
func (h *RoundHandler) ShareQR(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("id")
	if roundID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round id is required")
		return
	}

	round, err := h.rounds.Get(r.Context(), roundID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	const qrSize = 320
	joinURL := h.cfg.BaseURL + "/join/" + round.ShareCode
	png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSize)
	if err != nil {
		slog.Error("failed to encode QR code", "error", err, "round_id", roundID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		slog.Error("failed to write QR response", "error", err)
	}
}
