// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/korpo-bingo/auth"
	"github.com/danielhkuo/korpo-bingo/models"
	"github.com/danielhkuo/korpo-bingo/testutil"
)

func TestCreateRound(t *testing.T) {
	store := testutil.NewTestStore(t)
	handler := NewRoundHandler(store, testutil.GetTestConfig())

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"valid", models.CreateRoundRequest{Name: "Friday Standup"}, http.StatusCreated},
		{"with options", models.CreateRoundRequest{Name: "Offsite", BoardSize: 3, DurationDays: 2}, http.StatusCreated},
		{"empty name", models.CreateRoundRequest{Name: ""}, http.StatusBadRequest},
		{"bad board size", models.CreateRoundRequest{Name: "Bad", BoardSize: 7}, http.StatusBadRequest},
		{"empty body", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/rounds", tt.body, nil)
			w := httptest.NewRecorder()

			handler.CreateRound(w, req)

			testutil.AssertStatus(t, w, tt.wantStatus)

			if tt.wantStatus == http.StatusCreated {
				var round models.Round
				testutil.AssertJSON(t, w, &round)
				if round.RoundID == "" {
					t.Error("created round has no ID")
				}
				if round.Status != models.StatusCollecting {
					t.Errorf("created round status = %q, want collecting", round.Status)
				}
				if !auth.ValidShareCode(round.ShareCode) {
					t.Errorf("created round share code %q invalid", round.ShareCode)
				}
			}
		})
	}
}

func TestGetRound(t *testing.T) {
	store := testutil.NewTestStore(t)
	handler := NewRoundHandler(store, testutil.GetTestConfig())
	roundID, shareCode := testutil.CreateTestRound(t, store, models.StatusCollecting)

	t.Run("existing round", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/rounds/"+roundID, nil, nil)
		req.SetPathValue("id", roundID)
		w := httptest.NewRecorder()

		handler.GetRound(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var round models.Round
		testutil.AssertJSON(t, w, &round)
		if round.RoundID != roundID {
			t.Errorf("round ID = %q, want %q", round.RoundID, roundID)
		}
		if round.ShareCode != shareCode {
			t.Errorf("share code = %q, want %q", round.ShareCode, shareCode)
		}
	})

	t.Run("missing round", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/rounds/nope", nil, nil)
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()

		handler.GetRound(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestGetRoundByShareCode(t *testing.T) {
	store := testutil.NewTestStore(t)
	handler := NewRoundHandler(store, testutil.GetTestConfig())
	roundID, shareCode := testutil.CreateTestRound(t, store, models.StatusCollecting)

	t.Run("known code", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/rounds/by-code/"+shareCode, nil, nil)
		req.SetPathValue("code", shareCode)
		w := httptest.NewRecorder()

		handler.GetByShareCode(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var round models.Round
		testutil.AssertJSON(t, w, &round)
		if round.RoundID != roundID {
			t.Errorf("round ID = %q, want %q", round.RoundID, roundID)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/rounds/by-code/ZZZZZZ", nil, nil)
		req.SetPathValue("code", "ZZZZZZ")
		w := httptest.NewRecorder()

		handler.GetByShareCode(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestListRounds(t *testing.T) {
	store := testutil.NewTestStore(t)
	handler := NewRoundHandler(store, testutil.GetTestConfig())

	testutil.CreateTestRound(t, store, models.StatusCollecting)
	testutil.CreateTestRound(t, store, models.StatusPlaying)

	req := testutil.MakeRequest("GET", "/rounds", nil, nil)
	w := httptest.NewRecorder()

	handler.ListRounds(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var rounds []models.Round
	testutil.AssertJSON(t, w, &rounds)
	if len(rounds) != 2 {
		t.Errorf("listed %d rounds, want 2", len(rounds))
	}
}

func TestDeleteRound(t *testing.T) {
	store := testutil.NewTestStore(t)
	handler := NewRoundHandler(store, testutil.GetTestConfig())
	roundID, _ := testutil.CreateTestRound(t, store, models.StatusCollecting)

	req := testutil.MakeRequest("DELETE", "/rounds/"+roundID, nil, nil)
	req.SetPathValue("id", roundID)
	w := httptest.NewRecorder()

	handler.DeleteRound(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	// Round is gone
	getReq := testutil.MakeRequest("GET", "/rounds/"+roundID, nil, nil)
	getReq.SetPathValue("id", roundID)
	getW := httptest.NewRecorder()
	handler.GetRound(getW, getReq)
	testutil.AssertStatus(t, getW, http.StatusNotFound)
}

func TestUpdateStatus(t *testing.T) {
	store := testutil.NewTestStore(t)
	handler := NewRoundHandler(store, testutil.GetTestConfig())
	roundID, _ := testutil.CreateTestRound(t, store, models.StatusCollecting)
	testutil.RegisterTestPlayer(t, store, roundID, "Alice", "1234")

	headers := testutil.PlayerHeaders("Alice", "1234")

	t.Run("requires auth headers", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/rounds/"+roundID+"/status",
			models.UpdateStatusRequest{Status: models.StatusPlaying}, nil)
		req.SetPathValue("id", roundID)
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("rejects wrong pin", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/rounds/"+roundID+"/status",
			models.UpdateStatusRequest{Status: models.StatusPlaying},
			testutil.PlayerHeaders("Alice", "9999"))
		req.SetPathValue("id", roundID)
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("rejects illegal transition", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/rounds/"+roundID+"/status",
			models.UpdateStatusRequest{Status: models.StatusFinished}, headers)
		req.SetPathValue("id", roundID)
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("collecting to playing", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/rounds/"+roundID+"/status",
			models.UpdateStatusRequest{Status: models.StatusPlaying}, headers)
		req.SetPathValue("id", roundID)
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		getReq := testutil.MakeRequest("GET", "/rounds/"+roundID, nil, nil)
		getReq.SetPathValue("id", roundID)
		getW := httptest.NewRecorder()
		handler.GetRound(getW, getReq)

		var round models.Round
		testutil.AssertJSON(t, getW, &round)
		if round.Status != models.StatusPlaying {
			t.Errorf("status = %q, want playing", round.Status)
		}
		if round.RoundEndsAt == nil {
			t.Error("roundEndsAt not set after starting")
		}
	})
}

func TestUpdateStatusDealsBoards(t *testing.T) {
	store := testutil.NewTestStore(t)
	cfg := testutil.GetTestConfig()
	roundHandler := NewRoundHandler(store, cfg)
	boardHandler := NewBoardHandler(store, cfg)

	roundID, _ := testutil.CreateTestRound(t, store, models.StatusCollecting)
	for _, player := range []string{"Alice", "Bob"} {
		testutil.RegisterTestPlayer(t, store, roundID, player, "1234")
	}
	// 4x4 round needs at least 16 words
	for i := 0; i < 20; i++ {
		testutil.SubmitTestWord(t, store, roundID, wordText(i), "Alice")
	}

	req := testutil.MakeRequest("POST", "/rounds/"+roundID+"/status",
		models.UpdateStatusRequest{Status: models.StatusPlaying},
		testutil.PlayerHeaders("Alice", "1234"))
	req.SetPathValue("id", roundID)
	w := httptest.NewRecorder()

	roundHandler.UpdateStatus(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	// Both players now have a 16-cell board
	for _, player := range []string{"Alice", "Bob"} {
		getReq := testutil.MakeRequest("GET", "/rounds/"+roundID+"/boards/"+player, nil, nil)
		getReq.SetPathValue("id", roundID)
		getReq.SetPathValue("player", player)
		getW := httptest.NewRecorder()

		boardHandler.GetBoard(getW, getReq)

		testutil.AssertStatus(t, getW, http.StatusOK)
		var board models.BoardWithBingo
		testutil.AssertJSON(t, getW, &board)
		if len(board.Cells) != 16 {
			t.Errorf("%s board has %d cells, want 16", player, len(board.Cells))
		}
		if board.HasBingo {
			t.Errorf("%s fresh board reports a bingo", player)
		}
	}
}

func TestShareQR(t *testing.T) {
	store := testutil.NewTestStore(t)
	handler := NewRoundHandler(store, testutil.GetTestConfig())
	roundID, _ := testutil.CreateTestRound(t, store, models.StatusCollecting)

	t.Run("returns PNG", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/rounds/"+roundID+"/qr", nil, nil)
		req.SetPathValue("id", roundID)
		w := httptest.NewRecorder()

		handler.ShareQR(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		if ct := w.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("Content-Type = %q, want image/png", ct)
		}
		// PNG magic bytes
		body := w.Body.Bytes()
		if len(body) < 8 || body[0] != 0x89 || body[1] != 'P' || body[2] != 'N' || body[3] != 'G' {
			t.Error("response body is not a PNG")
		}
	})

	t.Run("missing round", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/rounds/nope/qr", nil, nil)
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()

		handler.ShareQR(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
