// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get when no record exists for the key.
	ErrNotFound = errors.New("record not found")
	// ErrConditionFailed is returned by Put and Update when the write
	// condition does not hold against the current record state.
	ErrConditionFailed = errors.New("condition failed")
)

// Logical table names. Backends map these to physical tables via Tables.
const (
	TableRounds  = "rounds"
	TableWords   = "words"
	TablePlayers = "players"
	TableBoards  = "boards"
)

// IndexByShareCode is the secondary index on rounds keyed by share code.
const IndexByShareCode = "byShareCode"

// Key identifies a record. Sort is empty for tables with a plain
// partition key (rounds).
type Key struct {
	Partition string
	Sort      string
}

// Item is a flat record as stored: JSON-canonical values only
// (string, float64, bool, nil, []any, map[string]any).
type Item map[string]any

// CondKind enumerates the write conditions the port supports.
type CondKind int

const (
	CondNone CondKind = iota
	CondNotExists
	CondExists
	CondSetContains
	CondSetNotContains
)

// Condition guards a Put or Update. Field and Value are only meaningful
// for the set-membership kinds.
type Condition struct {
	Kind  CondKind
	Field string
	Value string
}

func None() Condition      { return Condition{Kind: CondNone} }
func NotExists() Condition { return Condition{Kind: CondNotExists} }
func Exists() Condition    { return Condition{Kind: CondExists} }

// SetContains requires the named list field to contain value.
func SetContains(field, value string) Condition {
	return Condition{Kind: CondSetContains, Field: field, Value: value}
}

// SetNotContains requires the named list field to not contain value.
func SetNotContains(field, value string) Condition {
	return Condition{Kind: CondSetNotContains, Field: field, Value: value}
}

// OpKind enumerates partial-update operations.
type OpKind int

const (
	OpSet OpKind = iota
	OpSetIndex
	OpAdd
	OpAppend
)

// FieldOp is one partial-update operation applied by Update. All ops in
// a single Update call apply atomically or not at all.
type FieldOp struct {
	Kind  OpKind
	Field string
	Index int
	Value any
}

func Set(field string, value any) FieldOp { return FieldOp{Kind: OpSet, Field: field, Value: value} }

// SetIndex overwrites one element of a list field.
func SetIndex(field string, index int, value any) FieldOp {
	return FieldOp{Kind: OpSetIndex, Field: field, Index: index, Value: value}
}

// Add increments a numeric field by delta.
func Add(field string, delta float64) FieldOp {
	return FieldOp{Kind: OpAdd, Field: field, Value: delta}
}

// Append appends value to a list field, creating the list if absent.
func Append(field string, value any) FieldOp {
	return FieldOp{Kind: OpAppend, Field: field, Value: value}
}

// TableSpec describes one physical table: its name, key attribute
// names, and at most one secondary index.
type TableSpec struct {
	Name         string
	PartitionKey string
	SortKey      string
	IndexName    string
	IndexKey     string
}

// Tables maps logical table names to physical table specs.
type Tables map[string]TableSpec

// Spec resolves a logical table name.
func (t Tables) Spec(logical string) (TableSpec, error) {
	spec, ok := t[logical]
	if !ok {
		return TableSpec{}, fmt.Errorf("unknown table %q", logical)
	}
	return spec, nil
}

// DefaultTables returns the standard table layout, with physical names
// prefixed for environment separation (e.g. "korpobingo-dev-rounds").
func DefaultTables(prefix string) Tables {
	name := func(base string) string {
		if prefix == "" {
			return base
		}
		return prefix + "-" + base
	}
	return Tables{
		TableRounds: {
			Name:         name("rounds"),
			PartitionKey: "roundId",
			IndexName:    IndexByShareCode,
			IndexKey:     "shareCode",
		},
		TableWords: {
			Name:         name("words"),
			PartitionKey: "roundId",
			SortKey:      "wordId",
		},
		TablePlayers: {
			Name:         name("players"),
			PartitionKey: "roundId",
			SortKey:      "playerName",
		},
		TableBoards: {
			Name:         name("boards"),
			PartitionKey: "roundId",
			SortKey:      "playerName",
		},
	}
}

// Store is the key-value storage port. Conditional writes are the only
// concurrency-control primitive: a failed condition surfaces as
// ErrConditionFailed and the losing caller decides what it means.
//
// Update applies to existing records only; updating a missing record
// fails its condition.
type Store interface {
	Get(ctx context.Context, table string, key Key) (Item, error)
	Put(ctx context.Context, table string, key Key, item Item, cond Condition) error
	Update(ctx context.Context, table string, key Key, ops []FieldOp, cond Condition) error
	Query(ctx context.Context, table string, partition string) ([]Item, error)
	QueryIndex(ctx context.Context, table string, index string, value string) ([]Item, error)
	Scan(ctx context.Context, table string) ([]Item, error)
	Delete(ctx context.Context, table string, key Key) error
}

// MarshalItem converts a record struct to a storable Item via its JSON
// representation, so stored attribute names follow the json tags.
func MarshalItem(v any) (Item, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}
	var item Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}
	return item, nil
}

// UnmarshalItem converts a stored Item back into a record struct.
func UnmarshalItem(item Item, v any) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("unmarshal item: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unmarshal item: %w", err)
	}
	return nil
}
