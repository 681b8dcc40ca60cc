// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Round status constants
const (
	StatusCollecting = "collecting"
	StatusPlaying    = "playing"
	StatusFinished   = "finished"
)

// Board size constants
const (
	BoardSizeSmall = 3
	BoardSizeLarge = 4
)

// Bingo line types
const (
	LineRow      = "row"
	LineCol      = "col"
	LineDiagonal = "diagonal"
)

// Request types

type CreateRoundRequest struct {
	Name         string  `json:"name"`
	BoardSize    int     `json:"board_size,omitempty"`
	DurationDays float64 `json:"duration_days,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type SubmitWordRequest struct {
	Text string `json:"text"`
}

type RegisterPlayerRequest struct {
	PlayerName string `json:"player_name"`
	Pin        string `json:"pin"`
}

type VerifyPinRequest struct {
	PlayerName string `json:"player_name"`
	Pin        string `json:"pin"`
}

type MarkCellRequest struct {
	CellIndex int `json:"cell_index"`
}

// Response types

type VerifyPinResponse struct {
	Valid bool `json:"valid"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// BoardWithBingo is a board plus its current bingo evaluation, attached
// to every board-returning endpoint.
type BoardWithBingo struct {
	Board
	HasBingo   bool        `json:"hasBingo"`
	BingoLines []BingoLine `json:"bingoLines"`
}

// Error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types
//
// JSON tags double as the persisted attribute names in the storage port,
// matching the camelCase schema the web client already speaks.

type Round struct {
	RoundID      string     `json:"roundId"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	ShareCode    string     `json:"shareCode"`
	CreatedAt    time.Time  `json:"createdAt"`
	BoardSize    int        `json:"boardSize"`
	DurationDays float64    `json:"durationDays"`
	RoundEndsAt  *time.Time `json:"roundEndsAt,omitempty"`
}

type Word struct {
	RoundID     string    `json:"roundId"`
	WordID      string    `json:"wordId"`
	Text        string    `json:"text"`
	SubmittedBy string    `json:"submittedBy"`
	Votes       int       `json:"votes"`
	VotedBy     []string  `json:"votedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Player is the stored record, PIN hash included. Only PlayerInfo ever
// leaves the server.
type Player struct {
	RoundID    string    `json:"roundId"`
	PlayerName string    `json:"playerName"`
	PinHash    string    `json:"pinHash"`
	JoinedAt   time.Time `json:"joinedAt"`
}

// PlayerInfo is the public view of a Player.
type PlayerInfo struct {
	RoundID    string    `json:"roundId"`
	PlayerName string    `json:"playerName"`
	JoinedAt   time.Time `json:"joinedAt"`
}

// Public strips the PIN hash from a stored player record.
func (p Player) Public() PlayerInfo {
	return PlayerInfo{
		RoundID:    p.RoundID,
		PlayerName: p.PlayerName,
		JoinedAt:   p.JoinedAt,
	}
}

type Board struct {
	RoundID    string    `json:"roundId"`
	PlayerName string    `json:"playerName"`
	Cells      []string  `json:"cells"`
	Marked     []bool    `json:"marked"`
	Size       int       `json:"size"`
	CreatedAt  time.Time `json:"createdAt"`
}

type BingoLine struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

type BingoResult struct {
	HasBingo bool        `json:"hasBingo"`
	Lines    []BingoLine `json:"lines"`
}
