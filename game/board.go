// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/danielhkuo/korpo-bingo/models"
	"github.com/danielhkuo/korpo-bingo/storage"
)

// Boards owns board generation and bingo-line detection.
type Boards struct {
	store storage.Store
}

func NewBoards(store storage.Store) *Boards {
	return &Boards{store: store}
}

// Shuffle returns an unbiased Fisher-Yates permutation of words. The
// input is not mutated.
func Shuffle(words []string) []string {
	out := make([]string, len(words))
	copy(out, words)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Generate picks size*size cells from words, each permutation of the
// pool equally likely.
func Generate(words []string, size int) ([]string, error) {
	totalCells := size * size
	if len(words) < totalCells {
		return nil, Validationf("Need at least %d words for a %dx%d board, got %d",
			totalCells, size, size, len(words))
	}
	return Shuffle(words)[:totalCells], nil
}

// CheckBingo evaluates all rows, all columns, and both diagonals of a
// marked grid. Pure: identical input always yields identical output.
// Overlapping complete lines are all reported.
func CheckBingo(marked []bool, size int) models.BingoResult {
	lines := []models.BingoLine{}

	for row := 0; row < size; row++ {
		complete := true
		for col := 0; col < size; col++ {
			if !marked[row*size+col] {
				complete = false
				break
			}
		}
		if complete {
			lines = append(lines, models.BingoLine{Type: models.LineRow, Index: row})
		}
	}

	for col := 0; col < size; col++ {
		complete := true
		for row := 0; row < size; row++ {
			if !marked[row*size+col] {
				complete = false
				break
			}
		}
		if complete {
			lines = append(lines, models.BingoLine{Type: models.LineCol, Index: col})
		}
	}

	// Main diagonal (top-left → bottom-right)
	diagComplete := true
	for i := 0; i < size; i++ {
		if !marked[i*size+i] {
			diagComplete = false
			break
		}
	}
	if diagComplete {
		lines = append(lines, models.BingoLine{Type: models.LineDiagonal, Index: 0})
	}

	// Anti-diagonal (top-right → bottom-left)
	antiComplete := true
	for i := 0; i < size; i++ {
		if !marked[i*size+(size-1-i)] {
			antiComplete = false
			break
		}
	}
	if antiComplete {
		lines = append(lines, models.BingoLine{Type: models.LineDiagonal, Index: 1})
	}

	return models.BingoResult{HasBingo: len(lines) > 0, Lines: lines}
}

// Create deals a fresh board and writes it with a put-if-absent. If a
// board already exists for (roundId, playerName) - including one
// created by a racing duplicate request - the existing board is
// returned and the freshly shuffled layout discarded, making creation
// idempotent per player.
func (b *Boards) Create(ctx context.Context, roundID, playerName string, words []string, size int) (models.Board, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return models.Board{}, Validationf("Player name is required")
	}

	cells, err := Generate(words, size)
	if err != nil {
		return models.Board{}, err
	}

	board := models.Board{
		RoundID:    roundID,
		PlayerName: playerName,
		Cells:      cells,
		Marked:     make([]bool, len(cells)),
		Size:       size,
		CreatedAt:  time.Now().UTC(),
	}

	item, err := storage.MarshalItem(board)
	if err != nil {
		return models.Board{}, err
	}
	key := storage.Key{Partition: roundID, Sort: playerName}
	err = b.store.Put(ctx, storage.TableBoards, key, item, storage.NotExists())
	if errors.Is(err, storage.ErrConditionFailed) {
		return b.Get(ctx, roundID, playerName)
	}
	if err != nil {
		return models.Board{}, fmt.Errorf("store board: %w", err)
	}
	return board, nil
}

func (b *Boards) Get(ctx context.Context, roundID, playerName string) (models.Board, error) {
	item, err := b.store.Get(ctx, storage.TableBoards, storage.Key{Partition: roundID, Sort: playerName})
	if errors.Is(err, storage.ErrNotFound) {
		return models.Board{}, NotFoundf("Board not found for %s", playerName)
	}
	if err != nil {
		return models.Board{}, fmt.Errorf("get board: %w", err)
	}
	var board models.Board
	if err := storage.UnmarshalItem(item, &board); err != nil {
		return models.Board{}, err
	}
	return board, nil
}

func (b *Boards) ListByRound(ctx context.Context, roundID string) ([]models.Board, error) {
	items, err := b.store.Query(ctx, storage.TableBoards, roundID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	boards := make([]models.Board, 0, len(items))
	for _, item := range items {
		var board models.Board
		if err := storage.UnmarshalItem(item, &board); err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, nil
}

// MarkCell sets one cell's marked flag and returns the updated board.
func (b *Boards) MarkCell(ctx context.Context, roundID, playerName string, cellIndex int) (models.Board, error) {
	return b.setCell(ctx, roundID, playerName, cellIndex, true)
}

// UnmarkCell clears one cell's marked flag and returns the updated board.
func (b *Boards) UnmarkCell(ctx context.Context, roundID, playerName string, cellIndex int) (models.Board, error) {
	return b.setCell(ctx, roundID, playerName, cellIndex, false)
}

func (b *Boards) setCell(ctx context.Context, roundID, playerName string, cellIndex int, value bool) (models.Board, error) {
	if cellIndex < 0 {
		return models.Board{}, Validationf("Cell index must be non-negative")
	}

	board, err := b.Get(ctx, roundID, playerName)
	if IsNotFound(err) {
		return models.Board{}, Validationf("Board not found")
	}
	if err != nil {
		return models.Board{}, err
	}
	if cellIndex >= len(board.Marked) {
		return models.Board{}, Validationf("Cell index %d out of bounds (board has %d cells)",
			cellIndex, len(board.Marked))
	}

	key := storage.Key{Partition: roundID, Sort: playerName}
	ops := []storage.FieldOp{storage.SetIndex("marked", cellIndex, value)}
	if err := b.store.Update(ctx, storage.TableBoards, key, ops, storage.Exists()); err != nil {
		return models.Board{}, fmt.Errorf("mark cell: %w", err)
	}

	return b.Get(ctx, roundID, playerName)
}

// Remove deletes a board so the next create deals a fresh layout.
func (b *Boards) Remove(ctx context.Context, roundID, playerName string) error {
	key := storage.Key{Partition: roundID, Sort: playerName}
	if err := b.store.Delete(ctx, storage.TableBoards, key); err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	return nil
}
