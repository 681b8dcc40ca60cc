// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/korpo-bingo/auth"
	"github.com/danielhkuo/korpo-bingo/models"
	"github.com/danielhkuo/korpo-bingo/storage"
)

const (
	maxRoundNameLen     = 100
	defaultBoardSize    = models.BoardSizeLarge
	defaultDurationDays = 7.0
)

// validTransitions is the complete forward-only state machine. Any pair
// not listed here, including no-ops, is rejected.
var validTransitions = map[string]string{
	models.StatusCollecting: models.StatusPlaying,
	models.StatusPlaying:    models.StatusFinished,
}

// Rounds owns round creation, share-code issuance, and the
// collecting → playing → finished lifecycle.
type Rounds struct {
	store storage.Store
}

func NewRounds(store storage.Store) *Rounds {
	return &Rounds{store: store}
}

// CreateRoundInput carries the caller-supplied round parameters.
// BoardSize and DurationDays are optional: zero values select the
// defaults (4x4 board, 7 days).
type CreateRoundInput struct {
	RoundID      string
	Name         string
	BoardSize    int
	DurationDays float64
}

func (r *Rounds) Create(ctx context.Context, input CreateRoundInput) (models.Round, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Round{}, Validationf("Round name is required")
	}
	if len(name) > maxRoundNameLen {
		return models.Round{}, Validationf("Round name must be %d characters or less", maxRoundNameLen)
	}

	boardSize := input.BoardSize
	if boardSize == 0 {
		boardSize = defaultBoardSize
	}
	if boardSize != models.BoardSizeSmall && boardSize != models.BoardSizeLarge {
		return models.Round{}, Validationf("Board size must be %d or %d", models.BoardSizeSmall, models.BoardSizeLarge)
	}

	durationDays := input.DurationDays
	if durationDays == 0 {
		durationDays = defaultDurationDays
	}
	if durationDays < 0 {
		return models.Round{}, Validationf("Duration must be positive")
	}

	shareCode, err := auth.GenerateShareCode()
	if err != nil {
		return models.Round{}, err
	}

	round := models.Round{
		RoundID:      input.RoundID,
		Name:         name,
		Status:       models.StatusCollecting,
		ShareCode:    shareCode,
		CreatedAt:    time.Now().UTC(),
		BoardSize:    boardSize,
		DurationDays: durationDays,
	}

	item, err := storage.MarshalItem(round)
	if err != nil {
		return models.Round{}, err
	}
	key := storage.Key{Partition: round.RoundID}
	if err := r.store.Put(ctx, storage.TableRounds, key, item, storage.None()); err != nil {
		return models.Round{}, fmt.Errorf("store round: %w", err)
	}
	return round, nil
}

func (r *Rounds) Get(ctx context.Context, roundID string) (models.Round, error) {
	item, err := r.store.Get(ctx, storage.TableRounds, storage.Key{Partition: roundID})
	if errors.Is(err, storage.ErrNotFound) {
		return models.Round{}, NotFoundf("Round %s not found", roundID)
	}
	if err != nil {
		return models.Round{}, fmt.Errorf("get round: %w", err)
	}
	var round models.Round
	if err := storage.UnmarshalItem(item, &round); err != nil {
		return models.Round{}, err
	}
	return round, nil
}

// GetByShareCode looks a round up by join code, case-insensitively.
// Returns the first match if a code was ever duplicated.
func (r *Rounds) GetByShareCode(ctx context.Context, code string) (models.Round, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	items, err := r.store.QueryIndex(ctx, storage.TableRounds, storage.IndexByShareCode, code)
	if err != nil {
		return models.Round{}, fmt.Errorf("query share code: %w", err)
	}
	if len(items) == 0 {
		return models.Round{}, NotFoundf("No round with share code %s", code)
	}
	var round models.Round
	if err := storage.UnmarshalItem(items[0], &round); err != nil {
		return models.Round{}, err
	}
	return round, nil
}

// UpdateStatus advances the round lifecycle. The only legal transitions
// are collecting→playing and playing→finished. On entering playing,
// roundEndsAt is computed from durationDays (fractions allowed, 0.5 =
// 12 hours) and persisted with the status in one conditional update.
func (r *Rounds) UpdateStatus(ctx context.Context, roundID, status string) error {
	if status != models.StatusCollecting && status != models.StatusPlaying && status != models.StatusFinished {
		return Validationf("Invalid status: %s", status)
	}

	round, err := r.Get(ctx, roundID)
	if err != nil {
		return err
	}

	if validTransitions[round.Status] != status {
		return Validationf("Cannot transition from %q to %q", round.Status, status)
	}

	ops := []storage.FieldOp{storage.Set("status", status)}
	if status == models.StatusPlaying {
		endsAt := time.Now().UTC().Add(time.Duration(round.DurationDays * 24 * float64(time.Hour)))
		ops = append(ops, storage.Set("roundEndsAt", endsAt.Format(time.RFC3339Nano)))
	}

	err = r.store.Update(ctx, storage.TableRounds, storage.Key{Partition: roundID}, ops, storage.Exists())
	if errors.Is(err, storage.ErrConditionFailed) {
		return NotFoundf("Round %s not found", roundID)
	}
	if err != nil {
		return fmt.Errorf("update round status: %w", err)
	}
	return nil
}

func (r *Rounds) Remove(ctx context.Context, roundID string) error {
	if err := r.store.Delete(ctx, storage.TableRounds, storage.Key{Partition: roundID}); err != nil {
		return fmt.Errorf("delete round: %w", err)
	}
	return nil
}

func (r *Rounds) List(ctx context.Context) ([]models.Round, error) {
	items, err := r.store.Scan(ctx, storage.TableRounds)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	rounds := make([]models.Round, 0, len(items))
	for _, item := range items {
		var round models.Round
		if err := storage.UnmarshalItem(item, &round); err != nil {
			return nil, err
		}
		rounds = append(rounds, round)
	}
	return rounds, nil
}
