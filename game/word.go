// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/danielhkuo/korpo-bingo/models"
	"github.com/danielhkuo/korpo-bingo/storage"
)

const maxWordLen = 100

// Words owns word submission, deduplication, and per-player voting.
type Words struct {
	store storage.Store
}

func NewWords(store storage.Store) *Words {
	return &Words{store: store}
}

type SubmitWordInput struct {
	RoundID     string
	WordID      string
	Text        string
	SubmittedBy string
}

// Submit stores a new word after a case-insensitive duplicate check
// against the round's existing pool. The check and the write are two
// separate store calls; two racing submitters of the same text can both
// pass. Accepted best-effort behavior.
func (w *Words) Submit(ctx context.Context, input SubmitWordInput) (models.Word, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return models.Word{}, Validationf("Word text is required")
	}
	if len(text) > maxWordLen {
		return models.Word{}, Validationf("Word must be %d characters or less", maxWordLen)
	}
	submittedBy := strings.TrimSpace(input.SubmittedBy)
	if submittedBy == "" {
		return models.Word{}, Validationf("Player name is required")
	}

	existing, err := w.ListByRound(ctx, input.RoundID)
	if err != nil {
		return models.Word{}, err
	}
	for _, other := range existing {
		if strings.EqualFold(other.Text, text) {
			return models.Word{}, Validationf("Word %q already exists in this round", text)
		}
	}

	word := models.Word{
		RoundID:     input.RoundID,
		WordID:      input.WordID,
		Text:        text,
		SubmittedBy: submittedBy,
		Votes:       0,
		VotedBy:     []string{},
		CreatedAt:   time.Now().UTC(),
	}

	item, err := storage.MarshalItem(word)
	if err != nil {
		return models.Word{}, err
	}
	key := storage.Key{Partition: word.RoundID, Sort: word.WordID}
	if err := w.store.Put(ctx, storage.TableWords, key, item, storage.None()); err != nil {
		return models.Word{}, fmt.Errorf("store word: %w", err)
	}
	return word, nil
}

// Vote registers playerName's vote in a single conditional update:
// append the voter and increment the count, guarded by "votedBy does
// not already contain playerName". A repeat vote deterministically
// fails the condition instead of double-counting.
func (w *Words) Vote(ctx context.Context, roundID, wordID, playerName string) error {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return Validationf("Player name is required to vote")
	}

	key := storage.Key{Partition: roundID, Sort: wordID}
	ops := []storage.FieldOp{
		storage.Add("votes", 1),
		storage.Append("votedBy", playerName),
	}
	err := w.store.Update(ctx, storage.TableWords, key, ops, storage.SetNotContains("votedBy", playerName))
	if err != nil {
		return fmt.Errorf("vote: %w", err)
	}
	return nil
}

// Unvote removes playerName's vote. This is a read-modify-write: the
// new voter list and count are computed from a snapshot and written
// back conditioned on the voter still being present, which is weaker
// than Vote's single-write guarantee under concurrent unvotes.
func (w *Words) Unvote(ctx context.Context, roundID, wordID, playerName string) error {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return Validationf("Player name is required to unvote")
	}

	word, err := w.Get(ctx, roundID, wordID)
	if IsNotFound(err) {
		return Validationf("Word not found")
	}
	if err != nil {
		return err
	}

	votedBy := make([]string, 0, len(word.VotedBy))
	found := false
	for _, name := range word.VotedBy {
		if name == playerName {
			found = true
			continue
		}
		votedBy = append(votedBy, name)
	}
	if !found {
		return Validationf("Player %q has not voted for this word", playerName)
	}

	votes := word.Votes - 1
	if votes < 0 {
		votes = 0
	}

	key := storage.Key{Partition: roundID, Sort: wordID}
	ops := []storage.FieldOp{
		storage.Set("votedBy", votedBy),
		storage.Set("votes", votes),
	}
	err = w.store.Update(ctx, storage.TableWords, key, ops, storage.SetContains("votedBy", playerName))
	if err != nil {
		return fmt.Errorf("unvote: %w", err)
	}
	return nil
}

func (w *Words) Get(ctx context.Context, roundID, wordID string) (models.Word, error) {
	item, err := w.store.Get(ctx, storage.TableWords, storage.Key{Partition: roundID, Sort: wordID})
	if errors.Is(err, storage.ErrNotFound) {
		return models.Word{}, NotFoundf("Word %s not found", wordID)
	}
	if err != nil {
		return models.Word{}, fmt.Errorf("get word: %w", err)
	}
	var word models.Word
	if err := storage.UnmarshalItem(item, &word); err != nil {
		return models.Word{}, err
	}
	return word, nil
}

// Remove deletes a word. Only its submitter may remove it.
func (w *Words) Remove(ctx context.Context, roundID, wordID, playerName string) error {
	word, err := w.Get(ctx, roundID, wordID)
	if err != nil {
		return err
	}
	if word.SubmittedBy != strings.TrimSpace(playerName) {
		return Validationf("Only the submitter can remove a word")
	}
	key := storage.Key{Partition: roundID, Sort: wordID}
	if err := w.store.Delete(ctx, storage.TableWords, key); err != nil {
		return fmt.Errorf("delete word: %w", err)
	}
	return nil
}

func (w *Words) ListByRound(ctx context.Context, roundID string) ([]models.Word, error) {
	items, err := w.store.Query(ctx, storage.TableWords, roundID)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	words := make([]models.Word, 0, len(items))
	for _, item := range items {
		var word models.Word
		if err := storage.UnmarshalItem(item, &word); err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	return words, nil
}

// ListByVotes returns the round's words ranked by votes descending,
// ties broken by case-sensitive text order. Board generation depends on
// this ranking being deterministic.
func (w *Words) ListByVotes(ctx context.Context, roundID string) ([]models.Word, error) {
	words, err := w.ListByRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(words, func(i, j int) bool {
		if words[i].Votes != words[j].Votes {
			return words[i].Votes > words[j].Votes
		}
		return words[i].Text < words[j].Text
	})
	return words, nil
}
