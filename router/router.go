// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/korpo-bingo/cliparse"
	"github.com/danielhkuo/korpo-bingo/handlers"
	"github.com/danielhkuo/korpo-bingo/middleware"
	"github.com/danielhkuo/korpo-bingo/storage"
)

func NewRouter(store storage.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	roundHandler := handlers.NewRoundHandler(store, cfg)
	wordHandler := handlers.NewWordHandler(store, cfg)
	playerHandler := handlers.NewPlayerHandler(store, cfg)
	boardHandler := handlers.NewBoardHandler(store, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Round lifecycle
	mux.HandleFunc("POST /rounds", middleware.WithLogging(roundHandler.CreateRound))
	mux.HandleFunc("GET /rounds", middleware.WithLogging(roundHandler.ListRounds))
	mux.HandleFunc("GET /rounds/by-code/{code}", middleware.WithLogging(roundHandler.GetByShareCode))
	mux.HandleFunc("GET /rounds/{id}", middleware.WithLogging(roundHandler.GetRound))
	mux.HandleFunc("DELETE /rounds/{id}", middleware.WithLogging(roundHandler.DeleteRound))
	mux.HandleFunc("POST /rounds/{id}/status", middleware.WithLogging(roundHandler.UpdateStatus))
	mux.HandleFunc("GET /rounds/{id}/qr", middleware.WithLogging(roundHandler.ShareQR))

	// Word pool and voting
	mux.HandleFunc("POST /rounds/{id}/words", middleware.WithLogging(wordHandler.SubmitWord))
	mux.HandleFunc("GET /rounds/{id}/words", middleware.WithLogging(wordHandler.ListWords))
	mux.HandleFunc("POST /rounds/{id}/words/{wordId}/vote", middleware.WithLogging(wordHandler.Vote))
	mux.HandleFunc("POST /rounds/{id}/words/{wordId}/unvote", middleware.WithLogging(wordHandler.Unvote))
	mux.HandleFunc("DELETE /rounds/{id}/words/{wordId}", middleware.WithLogging(wordHandler.DeleteWord))

	// Players
	mux.HandleFunc("POST /rounds/{id}/players", middleware.WithLogging(playerHandler.Register))
	mux.HandleFunc("GET /rounds/{id}/players", middleware.WithLogging(playerHandler.ListPlayers))
	mux.HandleFunc("POST /rounds/{id}/players/verify", middleware.WithLogging(playerHandler.VerifyPin))
	mux.HandleFunc("POST /rounds/{id}/players/leave", middleware.WithLogging(playerHandler.Leave))

	// Boards
	mux.HandleFunc("POST /rounds/{id}/boards", middleware.WithLogging(boardHandler.CreateBoard))
	mux.HandleFunc("GET /rounds/{id}/boards/{player}", middleware.WithLogging(boardHandler.GetBoard))
	mux.HandleFunc("POST /rounds/{id}/boards/{player}/mark", middleware.WithLogging(boardHandler.MarkCell))
	mux.HandleFunc("POST /rounds/{id}/boards/{player}/unmark", middleware.WithLogging(boardHandler.UnmarkCell))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("korpo-bingo API v1"))
	})

	return mux
}
