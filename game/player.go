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

const maxPlayerNameLen = 30

// Players owns registration and PIN verification. The other engines
// never see PINs; handlers consult this one as the authorization gate.
type Players struct {
	store storage.Store
}

func NewPlayers(store storage.Store) *Players {
	return &Players{store: store}
}

// Register creates a player record with a round-and-name-salted PIN
// digest. The duplicate check and the write are separate store calls;
// two racing registrations of the same name can both pass. Accepted
// best-effort behavior. The returned view never includes the hash.
func (p *Players) Register(ctx context.Context, roundID, playerName, pin string) (models.PlayerInfo, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return models.PlayerInfo{}, Validationf("Player name is required")
	}
	if len(playerName) > maxPlayerNameLen {
		return models.PlayerInfo{}, Validationf("Player name must be %d characters or less", maxPlayerNameLen)
	}
	if !auth.ValidPINFormat(pin) {
		return models.PlayerInfo{}, Validationf("PIN must be exactly 4 digits")
	}

	key := storage.Key{Partition: roundID, Sort: playerName}
	_, err := p.store.Get(ctx, storage.TablePlayers, key)
	if err == nil {
		return models.PlayerInfo{}, Validationf("Player %q already exists in this round", playerName)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.PlayerInfo{}, fmt.Errorf("check player: %w", err)
	}

	player := models.Player{
		RoundID:    roundID,
		PlayerName: playerName,
		PinHash:    auth.HashPIN(roundID, playerName, pin),
		JoinedAt:   time.Now().UTC(),
	}

	item, err := storage.MarshalItem(player)
	if err != nil {
		return models.PlayerInfo{}, err
	}
	if err := p.store.Put(ctx, storage.TablePlayers, key, item, storage.None()); err != nil {
		return models.PlayerInfo{}, fmt.Errorf("store player: %w", err)
	}
	return player.Public(), nil
}

// VerifyPin recomputes the digest and compares it to the stored hash.
// Unknown players and wrong PINs both report false; no error on
// mismatch.
func (p *Players) VerifyPin(ctx context.Context, roundID, playerName, pin string) (bool, error) {
	playerName = strings.TrimSpace(playerName)
	key := storage.Key{Partition: roundID, Sort: playerName}
	item, err := p.store.Get(ctx, storage.TablePlayers, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get player: %w", err)
	}
	var player models.Player
	if err := storage.UnmarshalItem(item, &player); err != nil {
		return false, err
	}
	return auth.VerifyPIN(roundID, playerName, pin, player.PinHash), nil
}

// Get returns one player's public view.
func (p *Players) Get(ctx context.Context, roundID, playerName string) (models.PlayerInfo, error) {
	key := storage.Key{Partition: roundID, Sort: playerName}
	item, err := p.store.Get(ctx, storage.TablePlayers, key)
	if errors.Is(err, storage.ErrNotFound) {
		return models.PlayerInfo{}, NotFoundf("Player %s not found", playerName)
	}
	if err != nil {
		return models.PlayerInfo{}, fmt.Errorf("get player: %w", err)
	}
	var player models.Player
	if err := storage.UnmarshalItem(item, &player); err != nil {
		return models.PlayerInfo{}, err
	}
	return player.Public(), nil
}

// ListByRound returns public views only.
func (p *Players) ListByRound(ctx context.Context, roundID string) ([]models.PlayerInfo, error) {
	items, err := p.store.Query(ctx, storage.TablePlayers, roundID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	players := make([]models.PlayerInfo, 0, len(items))
	for _, item := range items {
		var player models.Player
		if err := storage.UnmarshalItem(item, &player); err != nil {
			return nil, err
		}
		players = append(players, player.Public())
	}
	return players, nil
}

// Remove deletes a player record (the "leave" flow).
func (p *Players) Remove(ctx context.Context, roundID, playerName string) error {
	key := storage.Key{Partition: roundID, Sort: playerName}
	if err := p.store.Delete(ctx, storage.TablePlayers, key); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return nil
}
