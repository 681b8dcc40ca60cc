// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/korpo-bingo/game"
	"github.com/danielhkuo/korpo-bingo/middleware"
	"github.com/danielhkuo/korpo-bingo/storage"
)

// writeDomainError maps engine errors onto HTTP statuses:
// ValidationError → 400, NotFoundError → 404, a surfaced condition
// failure → 409. Anything else is a server fault.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case game.IsValidation(err):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case game.IsNotFound(err):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrConditionFailed):
		middleware.ErrorResponse(w, http.StatusConflict, "Conflict: condition not met")
	default:
		slog.Error("unhandled domain error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}

// requirePlayer authenticates the caller from the X-Player-Name and
// X-Player-Pin headers against the round's player registry. On failure
// it writes the response itself and returns ok=false.
func requirePlayer(w http.ResponseWriter, r *http.Request, players *game.Players, roundID string) (string, bool) {
	playerName := r.Header.Get("X-Player-Name")
	pin := r.Header.Get("X-Player-Pin")
	if playerName == "" || pin == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Player-Name and X-Player-Pin headers required")
		return "", false
	}

	valid, err := players.VerifyPin(r.Context(), roundID, playerName, pin)
	if err != nil {
		slog.Error("failed to verify PIN", "error", err, "round_id", roundID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to verify PIN")
		return "", false
	}
	if !valid {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid PIN")
		return "", false
	}
	return playerName, true
}
