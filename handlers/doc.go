// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the korpo-bingo API.

# Handler Types

Each handler is a struct over the storage port and config:

  - RoundHandler: round lifecycle, share-code lookup, QR join links
  - WordHandler: word submission, voting, vote-ranked listing
  - PlayerHandler: registration, PIN verification, leaving
  - BoardHandler: board dealing, cell marking, bingo evaluation

Handlers are created via constructor functions that accept a
storage.Store and Config:

	roundHandler := handlers.NewRoundHandler(store, cfg)

# Round Lifecycle

Rounds progress through three states: collecting → playing → finished

	POST /rounds               → CreateRound (returns share code)
	POST /rounds/{id}/status   → UpdateStatus (deals boards on playing)
	GET  /rounds/by-code/{code} → GetByShareCode (case-insensitive)
	GET  /rounds/{id}/qr       → ShareQR (PNG join link)

# Player Authentication

Mutating endpoints require the X-Player-Name and X-Player-Pin headers;
the PIN is verified against the player's registration for the round
before the operation runs. verification failures answer 401.

	POST /rounds/{id}/players        → Register (player_name, pin)
	POST /rounds/{id}/players/verify → VerifyPin ({valid: bool})
	POST /rounds/{id}/players/leave  → Leave (board, then player record)

# Words and Boards

	POST   /rounds/{id}/words                  → SubmitWord
	GET    /rounds/{id}/words?sort=votes       → ListWords
	POST   /rounds/{id}/words/{wordId}/vote    → Vote (idempotent)
	POST   /rounds/{id}/words/{wordId}/unvote  → Unvote
	DELETE /rounds/{id}/words/{wordId}         → DeleteWord (submitter)
	POST   /rounds/{id}/boards                 → CreateBoard (lazy deal)
	GET    /rounds/{id}/boards/{player}        → GetBoard
	POST   /rounds/{id}/boards/{player}/mark   → MarkCell
	POST   /rounds/{id}/boards/{player}/unmark → UnmarkCell

Board responses include hasBingo and bingoLines.

# Error Mapping

Engine errors map to statuses in one place (writeDomainError):
ValidationError → 400, NotFoundError → 404, a surfaced storage
condition failure → 409, everything else → 500.
*/
package handlers
