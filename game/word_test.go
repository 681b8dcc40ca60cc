// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package game

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/danielhkuo/korpo-bingo/storage"
)

func TestSubmitWord(t *testing.T) {
	tests := []struct {
		name    string
		input   SubmitWordInput
		wantErr bool
	}{
		{"valid", SubmitWordInput{RoundID: "r1", WordID: "w1", Text: "synergy", SubmittedBy: "Alice"}, false},
		{"trimmed text", SubmitWordInput{RoundID: "r1", WordID: "w2", Text: "  deep dive  ", SubmittedBy: "Alice"}, false},
		{"empty text", SubmitWordInput{RoundID: "r1", WordID: "w3", Text: "", SubmittedBy: "Alice"}, true},
		{"whitespace text", SubmitWordInput{RoundID: "r1", WordID: "w4", Text: "   ", SubmittedBy: "Alice"}, true},
		{"text too long", SubmitWordInput{RoundID: "r1", WordID: "w5", Text: strings.Repeat("x", 101), SubmittedBy: "Alice"}, true},
		{"no submitter", SubmitWordInput{RoundID: "r1", WordID: "w6", Text: "paradigm", SubmittedBy: ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := NewWords(newTestStore())
			word, err := words.Submit(context.Background(), tt.input)
			if tt.wantErr {
				if !IsValidation(err) {
					t.Errorf("Submit() error = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if word.Text != strings.TrimSpace(tt.input.Text) {
				t.Errorf("word text = %q, want trimmed input", word.Text)
			}
			if word.Votes != 0 {
				t.Errorf("new word votes = %d, want 0", word.Votes)
			}
			if word.VotedBy == nil || len(word.VotedBy) != 0 {
				t.Errorf("new word votedBy = %v, want empty list", word.VotedBy)
			}
		})
	}
}

func TestSubmitDuplicateWord(t *testing.T) {
	words := NewWords(newTestStore())
	ctx := context.Background()

	if _, err := words.Submit(ctx, SubmitWordInput{RoundID: "r1", WordID: "w1", Text: "Synergy", SubmittedBy: "Alice"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Duplicate check is case-insensitive
	for _, text := range []string{"Synergy", "synergy", "SYNERGY", "  synergy  "} {
		_, err := words.Submit(ctx, SubmitWordInput{RoundID: "r1", WordID: "w2", Text: text, SubmittedBy: "Bob"})
		if !IsValidation(err) {
			t.Errorf("Submit(%q) error = %v, want validation error", text, err)
		}
	}

	// Same text in another round is fine
	if _, err := words.Submit(ctx, SubmitWordInput{RoundID: "r2", WordID: "w3", Text: "synergy", SubmittedBy: "Bob"}); err != nil {
		t.Errorf("Submit() in other round error = %v", err)
	}
}

func TestVote(t *testing.T) {
	words := NewWords(newTestStore())
	ctx := context.Background()

	if _, err := words.Submit(ctx, SubmitWordInput{RoundID: "r1", WordID: "w1", Text: "synergy", SubmittedBy: "Alice"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if err := words.Vote(ctx, "r1", "w1", "Bob"); err != nil {
		t.Fatalf("Vote() error = %v", err)
	}
	word, err := words.Get(ctx, "r1", "w1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if word.Votes != 1 {
		t.Errorf("votes = %d, want 1", word.Votes)
	}
	if len(word.VotedBy) != 1 || word.VotedBy[0] != "Bob" {
		t.Errorf("votedBy = %v, want [Bob]", word.VotedBy)
	}

	// Second vote by the same player fails the write condition and
	// leaves the count untouched
	err = words.Vote(ctx, "r1", "w1", "Bob")
	if !errors.Is(err, storage.ErrConditionFailed) {
		t.Errorf("repeat Vote() error = %v, want condition failure", err)
	}
	word, _ = words.Get(ctx, "r1", "w1")
	if word.Votes != 1 {
		t.Errorf("votes after repeat vote = %d, want 1", word.Votes)
	}

	// A different player can still vote
	if err := words.Vote(ctx, "r1", "w1", "Carol"); err != nil {
		t.Fatalf("Vote() by second player error = %v", err)
	}
	word, _ = words.Get(ctx, "r1", "w1")
	if word.Votes != 2 {
		t.Errorf("votes = %d, want 2", word.Votes)
	}

	// Empty voter name is rejected before touching the store
	if err := words.Vote(ctx, "r1", "w1", "  "); !IsValidation(err) {
		t.Errorf("Vote() with empty name error = %v, want validation error", err)
	}
}

func TestUnvote(t *testing.T) {
	words := NewWords(newTestStore())
	ctx := context.Background()

	if _, err := words.Submit(ctx, SubmitWordInput{RoundID: "r1", WordID: "w1", Text: "synergy", SubmittedBy: "Alice"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := words.Vote(ctx, "r1", "w1", "Bob"); err != nil {
		t.Fatalf("Vote() error = %v", err)
	}

	if err := words.Unvote(ctx, "r1", "w1", "Bob"); err != nil {
		t.Fatalf("Unvote() error = %v", err)
	}
	word, _ := words.Get(ctx, "r1", "w1")
	if word.Votes != 0 {
		t.Errorf("votes after unvote = %d, want 0", word.Votes)
	}
	if len(word.VotedBy) != 0 {
		t.Errorf("votedBy after unvote = %v, want empty", word.VotedBy)
	}

	// Unvoting without a standing vote is a validation error
	if err := words.Unvote(ctx, "r1", "w1", "Bob"); !IsValidation(err) {
		t.Errorf("repeat Unvote() error = %v, want validation error", err)
	}
	if err := words.Unvote(ctx, "r1", "w1", "Carol"); !IsValidation(err) {
		t.Errorf("Unvote() by non-voter error = %v, want validation error", err)
	}

	// Vote again after unvoting works
	if err := words.Vote(ctx, "r1", "w1", "Bob"); err != nil {
		t.Errorf("Vote() after unvote error = %v", err)
	}

	// Unknown word
	if err := words.Unvote(ctx, "r1", "missing", "Bob"); !IsValidation(err) {
		t.Errorf("Unvote() on missing word error = %v, want validation error", err)
	}
}

func TestRemoveWord(t *testing.T) {
	words := NewWords(newTestStore())
	ctx := context.Background()

	if _, err := words.Submit(ctx, SubmitWordInput{RoundID: "r1", WordID: "w1", Text: "synergy", SubmittedBy: "Alice"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Only the submitter may remove
	if err := words.Remove(ctx, "r1", "w1", "Bob"); !IsValidation(err) {
		t.Errorf("Remove() by non-submitter error = %v, want validation error", err)
	}
	if _, err := words.Get(ctx, "r1", "w1"); err != nil {
		t.Errorf("word should survive a rejected removal: %v", err)
	}

	if err := words.Remove(ctx, "r1", "w1", "Alice"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := words.Get(ctx, "r1", "w1"); !IsNotFound(err) {
		t.Errorf("Get() after removal error = %v, want not-found", err)
	}

	if err := words.Remove(ctx, "r1", "missing", "Alice"); !IsNotFound(err) {
		t.Errorf("Remove() on missing word error = %v, want not-found", err)
	}
}

func TestListByVotes(t *testing.T) {
	words := NewWords(newTestStore())
	ctx := context.Background()

	submit := func(id, text string) {
		t.Helper()
		if _, err := words.Submit(ctx, SubmitWordInput{RoundID: "r1", WordID: id, Text: text, SubmittedBy: "Alice"}); err != nil {
			t.Fatalf("Submit(%s) error = %v", text, err)
		}
	}
	vote := func(id string, voters ...string) {
		t.Helper()
		for _, v := range voters {
			if err := words.Vote(ctx, "r1", id, v); err != nil {
				t.Fatalf("Vote(%s, %s) error = %v", id, v, err)
			}
		}
	}

	submit("w1", "banana")
	submit("w2", "apple")
	submit("w3", "cherry")
	submit("w4", "date")
	vote("w3", "Bob", "Carol", "Dave")
	vote("w2", "Bob")
	vote("w4", "Bob")

	ranked, err := words.ListByVotes(ctx, "r1")
	if err != nil {
		t.Fatalf("ListByVotes() error = %v", err)
	}

	// Votes descending, ties broken by text ascending,
	// unvoted words last
	want := []string{"cherry", "apple", "date", "banana"}
	if len(ranked) != len(want) {
		t.Fatalf("ListByVotes() returned %d words, want %d", len(ranked), len(want))
	}
	for i, text := range want {
		if ranked[i].Text != text {
			t.Errorf("ListByVotes()[%d] = %q, want %q", i, ranked[i].Text, text)
		}
	}
}
