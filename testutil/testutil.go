// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/korpo-bingo/auth"
	"github.com/danielhkuo/korpo-bingo/cliparse"
	"github.com/danielhkuo/korpo-bingo/models"
	"github.com/danielhkuo/korpo-bingo/storage"
)

// NewTestStore creates a fresh in-memory store with the standard table
// layout. Every test gets its own store, so no cleanup is needed.
func NewTestStore(t *testing.T) *storage.Memory {
	t.Helper()
	return storage.NewMemory(storage.DefaultTables(""))
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3319,
		StorageBackend: cliparse.BackendMemory,
		BaseURL:        "http://localhost:3319",
	}
}

// CreateTestRound writes a round record and returns its ID and share code.
// status should be "collecting", "playing", or "finished".
func CreateTestRound(t *testing.T, store storage.Store, status string) (roundID, shareCode string) {
	t.Helper()

	roundID = uuid.NewString()
	shareCode, err := auth.GenerateShareCode()
	if err != nil {
		t.Fatalf("Failed to generate share code: %v", err)
	}

	round := models.Round{
		RoundID:      roundID,
		Name:         "Test Round",
		Status:       status,
		ShareCode:    shareCode,
		CreatedAt:    time.Now().UTC(),
		BoardSize:    models.BoardSizeLarge,
		DurationDays: 7,
	}
	if status == models.StatusPlaying || status == models.StatusFinished {
		ends := time.Now().UTC().Add(7 * 24 * time.Hour)
		round.RoundEndsAt = &ends
	}

	putItem(t, store, storage.TableRounds, storage.Key{Partition: roundID}, round)
	return roundID, shareCode
}

// RegisterTestPlayer writes a player record with a hashed PIN.
func RegisterTestPlayer(t *testing.T, store storage.Store, roundID, playerName, pin string) {
	t.Helper()

	player := models.Player{
		RoundID:    roundID,
		PlayerName: playerName,
		PinHash:    auth.HashPIN(roundID, playerName, pin),
		JoinedAt:   time.Now().UTC(),
	}
	putItem(t, store, storage.TablePlayers, storage.Key{Partition: roundID, Sort: playerName}, player)
}

// SubmitTestWord writes a word record with the given vote state and
// returns the word ID.
func SubmitTestWord(t *testing.T, store storage.Store, roundID, text, submittedBy string, votedBy ...string) string {
	t.Helper()

	if votedBy == nil {
		votedBy = []string{}
	}
	wordID := uuid.NewString()
	word := models.Word{
		RoundID:     roundID,
		WordID:      wordID,
		Text:        text,
		SubmittedBy: submittedBy,
		Votes:       len(votedBy),
		VotedBy:     votedBy,
		CreatedAt:   time.Now().UTC(),
	}
	putItem(t, store, storage.TableWords, storage.Key{Partition: roundID, Sort: wordID}, word)
	return wordID
}

// CreateTestBoard writes an unmarked board for a player.
func CreateTestBoard(t *testing.T, store storage.Store, roundID, playerName string, cells []string, size int) {
	t.Helper()

	board := models.Board{
		RoundID:    roundID,
		PlayerName: playerName,
		Cells:      cells,
		Marked:     make([]bool, len(cells)),
		Size:       size,
		CreatedAt:  time.Now().UTC(),
	}
	putItem(t, store, storage.TableBoards, storage.Key{Partition: roundID, Sort: playerName}, board)
}

func putItem(t *testing.T, store storage.Store, table string, key storage.Key, v any) {
	t.Helper()

	item, err := storage.MarshalItem(v)
	if err != nil {
		t.Fatalf("Failed to marshal %s item: %v", table, err)
	}
	if err := store.Put(context.Background(), table, key, item, storage.None()); err != nil {
		t.Fatalf("Failed to seed %s item: %v", table, err)
	}
}

// PlayerHeaders returns the auth headers a registered player sends on
// mutating requests.
func PlayerHeaders(playerName, pin string) map[string]string {
	return map[string]string{
		"X-Player-Name": playerName,
		"X-Player-Pin":  pin,
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
