// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"errors"
	"testing"
)

func newTestStore() *Memory {
	return NewMemory(DefaultTables(""))
}

func TestMemoryGetPut(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	key := Key{Partition: "r1", Sort: "w1"}

	// Get before any write
	_, err := store.Get(ctx, TableWords, key)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on missing key error = %v, want ErrNotFound", err)
	}

	item := Item{"roundId": "r1", "wordId": "w1", "text": "synergy", "votes": float64(0)}
	if err := store.Put(ctx, TableWords, key, item, None()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(ctx, TableWords, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got["text"] != "synergy" {
		t.Errorf("Get() text = %v, want synergy", got["text"])
	}

	// Returned items must not alias stored state
	got["text"] = "mutated"
	again, _ := store.Get(ctx, TableWords, key)
	if again["text"] != "synergy" {
		t.Error("Get() returned an aliased item; mutation leaked into the store")
	}

	// Unknown logical table
	if _, err := store.Get(ctx, "nope", key); err == nil {
		t.Error("Get() on unknown table should fail")
	}
}

func TestMemoryPutConditions(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	key := Key{Partition: "r1"}
	item := Item{"roundId": "r1", "status": "collecting"}

	// NotExists succeeds on a fresh key, fails on the second attempt
	if err := store.Put(ctx, TableRounds, key, item, NotExists()); err != nil {
		t.Fatalf("Put(NotExists) on fresh key error = %v", err)
	}
	err := store.Put(ctx, TableRounds, key, item, NotExists())
	if !errors.Is(err, ErrConditionFailed) {
		t.Errorf("Put(NotExists) on existing key error = %v, want ErrConditionFailed", err)
	}

	// Exists succeeds now, fails on a missing key
	if err := store.Put(ctx, TableRounds, key, item, Exists()); err != nil {
		t.Errorf("Put(Exists) on existing key error = %v", err)
	}
	err = store.Put(ctx, TableRounds, Key{Partition: "r2"}, item, Exists())
	if !errors.Is(err, ErrConditionFailed) {
		t.Errorf("Put(Exists) on missing key error = %v, want ErrConditionFailed", err)
	}

	// Unconditional put overwrites
	if err := store.Put(ctx, TableRounds, key, Item{"roundId": "r1", "status": "playing"}, None()); err != nil {
		t.Fatalf("Put(None) error = %v", err)
	}
	got, _ := store.Get(ctx, TableRounds, key)
	if got["status"] != "playing" {
		t.Errorf("overwrite failed: status = %v", got["status"])
	}
}

func TestMemoryUpdate(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	key := Key{Partition: "r1", Sort: "w1"}

	// Update never creates a record
	err := store.Update(ctx, TableWords, key, []FieldOp{Set("votes", 1)}, None())
	if !errors.Is(err, ErrConditionFailed) {
		t.Errorf("Update() on missing key error = %v, want ErrConditionFailed", err)
	}

	seed := Item{"roundId": "r1", "wordId": "w1", "text": "synergy", "votes": float64(0), "votedBy": []any{}}
	if err := store.Put(ctx, TableWords, key, seed, None()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Add + Append in one call
	ops := []FieldOp{Add("votes", 1), Append("votedBy", "Alice")}
	if err := store.Update(ctx, TableWords, key, ops, SetNotContains("votedBy", "Alice")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := store.Get(ctx, TableWords, key)
	if got["votes"] != float64(1) {
		t.Errorf("votes = %v, want 1", got["votes"])
	}
	voted, ok := got["votedBy"].([]any)
	if !ok || len(voted) != 1 || voted[0] != "Alice" {
		t.Errorf("votedBy = %v, want [Alice]", got["votedBy"])
	}

	// Same conditional update again must now fail
	err = store.Update(ctx, TableWords, key, ops, SetNotContains("votedBy", "Alice"))
	if !errors.Is(err, ErrConditionFailed) {
		t.Errorf("repeat Update() error = %v, want ErrConditionFailed", err)
	}
	got, _ = store.Get(ctx, TableWords, key)
	if got["votes"] != float64(1) {
		t.Errorf("votes after failed update = %v, want 1", got["votes"])
	}

	// SetContains holds for the voter we just added
	if err := store.Update(ctx, TableWords, key, []FieldOp{Set("votes", 0)}, SetContains("votedBy", "Alice")); err != nil {
		t.Errorf("Update(SetContains) error = %v", err)
	}
	err = store.Update(ctx, TableWords, key, []FieldOp{Set("votes", 5)}, SetContains("votedBy", "Bob"))
	if !errors.Is(err, ErrConditionFailed) {
		t.Errorf("Update(SetContains missing voter) error = %v, want ErrConditionFailed", err)
	}
}

func TestMemoryUpdateSetIndex(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	key := Key{Partition: "r1", Sort: "Alice"}

	seed := Item{"roundId": "r1", "playerName": "Alice", "marked": []any{false, false, false, false}}
	if err := store.Put(ctx, TableBoards, key, seed, None()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if err := store.Update(ctx, TableBoards, key, []FieldOp{SetIndex("marked", 2, true)}, Exists()); err != nil {
		t.Fatalf("Update(SetIndex) error = %v", err)
	}
	got, _ := store.Get(ctx, TableBoards, key)
	marked := got["marked"].([]any)
	want := []any{false, false, true, false}
	for i := range want {
		if marked[i] != want[i] {
			t.Errorf("marked[%d] = %v, want %v", i, marked[i], want[i])
		}
	}

	// Out-of-bounds index is an error, not a silent no-op
	if err := store.Update(ctx, TableBoards, key, []FieldOp{SetIndex("marked", 9, true)}, Exists()); err == nil {
		t.Error("Update(SetIndex out of bounds) should fail")
	}
}

func TestMemoryQuery(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	put := func(partition, sort string) {
		t.Helper()
		item := Item{"roundId": partition, "wordId": sort}
		if err := store.Put(ctx, TableWords, Key{Partition: partition, Sort: sort}, item, None()); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
	put("r1", "b")
	put("r1", "a")
	put("r1", "c")
	put("r2", "z")

	items, err := store.Query(ctx, TableWords, "r1")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Query() returned %d items, want 3", len(items))
	}
	// Sorted by sort key
	for i, want := range []string{"a", "b", "c"} {
		if items[i]["wordId"] != want {
			t.Errorf("Query()[%d] wordId = %v, want %s", i, items[i]["wordId"], want)
		}
	}

	items, _ = store.Query(ctx, TableWords, "r3")
	if len(items) != 0 {
		t.Errorf("Query() on empty partition returned %d items", len(items))
	}
}

func TestMemoryQueryIndex(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	item := Item{"roundId": "r1", "shareCode": "ABC234"}
	if err := store.Put(ctx, TableRounds, Key{Partition: "r1"}, item, None()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	other := Item{"roundId": "r2", "shareCode": "XYZ789"}
	if err := store.Put(ctx, TableRounds, Key{Partition: "r2"}, other, None()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	items, err := store.QueryIndex(ctx, TableRounds, IndexByShareCode, "ABC234")
	if err != nil {
		t.Fatalf("QueryIndex() error = %v", err)
	}
	if len(items) != 1 || items[0]["roundId"] != "r1" {
		t.Errorf("QueryIndex() = %v, want single r1 item", items)
	}

	items, _ = store.QueryIndex(ctx, TableRounds, IndexByShareCode, "NOSUCH")
	if len(items) != 0 {
		t.Errorf("QueryIndex() on unknown code returned %d items", len(items))
	}

	// Words table declares no index
	var unknownIdx *UnknownIndexError
	_, err = store.QueryIndex(ctx, TableWords, IndexByShareCode, "ABC234")
	if !errors.As(err, &unknownIdx) {
		t.Errorf("QueryIndex() on unindexed table error = %v, want UnknownIndexError", err)
	}
}

func TestMemoryScanAndDelete(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	for _, id := range []string{"r2", "r1", "r3"} {
		item := Item{"roundId": id}
		if err := store.Put(ctx, TableRounds, Key{Partition: id}, item, None()); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	items, err := store.Scan(ctx, TableRounds)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Scan() returned %d items, want 3", len(items))
	}
	for i, want := range []string{"r1", "r2", "r3"} {
		if items[i]["roundId"] != want {
			t.Errorf("Scan()[%d] roundId = %v, want %s", i, items[i]["roundId"], want)
		}
	}

	if err := store.Delete(ctx, TableRounds, Key{Partition: "r2"}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// Delete is idempotent
	if err := store.Delete(ctx, TableRounds, Key{Partition: "r2"}); err != nil {
		t.Errorf("repeat Delete() error = %v", err)
	}
	items, _ = store.Scan(ctx, TableRounds)
	if len(items) != 2 {
		t.Errorf("Scan() after delete returned %d items, want 2", len(items))
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	type record struct {
		ID    string   `json:"id"`
		Count int      `json:"count"`
		Tags  []string `json:"tags"`
	}

	in := record{ID: "x", Count: 3, Tags: []string{"a", "b"}}
	item, err := MarshalItem(in)
	if err != nil {
		t.Fatalf("MarshalItem() error = %v", err)
	}
	// Attribute names follow json tags
	if item["id"] != "x" {
		t.Errorf("item[id] = %v, want x", item["id"])
	}
	if item["count"] != float64(3) {
		t.Errorf("item[count] = %v, want 3", item["count"])
	}

	var out record
	if err := UnmarshalItem(item, &out); err != nil {
		t.Fatalf("UnmarshalItem() error = %v", err)
	}
	if out.ID != in.ID || out.Count != in.Count || len(out.Tags) != 2 {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
