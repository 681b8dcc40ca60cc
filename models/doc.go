// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateRoundRequest: name, board_size, duration_days
  - UpdateStatusRequest: status
  - SubmitWordRequest: text
  - RegisterPlayerRequest: player_name, pin
  - VerifyPinRequest: player_name, pin
  - MarkCellRequest: cell_index

# Response Types

  - VerifyPinResponse: valid
  - OKResponse: ok
  - BoardWithBingo: board fields plus hasBingo and bingoLines
  - ErrorResponse: error, message

# Domain Types

Records persisted through the storage port (JSON tags are the stored
attribute names):

  - Round: round metadata and lifecycle state
  - Word: submitted buzzword with vote count and voter set
  - Player: stored player record including the PIN hash
  - PlayerInfo: public view of a player (no PIN hash)
  - Board: per-player cell grid with parallel marked state
  - BingoLine / BingoResult: bingo detection output

# Constants

Round status values:

	StatusCollecting = "collecting"
	StatusPlaying    = "playing"
	StatusFinished   = "finished"

Board sizes:

	BoardSizeSmall = 3
	BoardSizeLarge = 4

Bingo line types:

	LineRow      = "row"
	LineCol      = "col"
	LineDiagonal = "diagonal"
*/
package models
