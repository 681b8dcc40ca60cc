// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package storage defines the key-value storage port the game engines run
against, plus its three backends.

# The Port

Store is a small key-value interface with conditional writes:

	Get(ctx, table, key) (Item, error)
	Put(ctx, table, key, item, cond) error
	Update(ctx, table, key, ops, cond) error
	Query(ctx, table, partition) ([]Item, error)
	QueryIndex(ctx, table, index, value) ([]Item, error)
	Scan(ctx, table) ([]Item, error)
	Delete(ctx, table, key) error

Records are flat Items (JSON-canonical maps). MarshalItem and
UnmarshalItem convert between Items and typed records using json tags
for attribute names.

# Conditions

Conditional writes are the only concurrency-control primitive. A failed
condition returns ErrConditionFailed; callers decide what that means
for their operation.

  - NotExists: create-once (board dealing, registration records)
  - Exists: update-only (status transitions, cell marks)
  - SetContains / SetNotContains: list membership guards (vote
    idempotence, unvote)

Update never creates a record; updating a missing key fails the
condition.

# Field Ops

Partial updates compose from Set, SetIndex (one list element), Add
(numeric increment), and Append (list append, creating the list if
absent). All ops in one Update call apply atomically.

# Backends

  - Memory: mutex-guarded in-process store; the test fake and the
    zero-config dev mode.
  - SQL: JSON document tables (pk, sk, doc, idx) on Postgres or SQLite;
    conditional updates run inside a transaction.
  - Dynamo: DynamoDB with native condition and update expressions.

# Tables

Logical tables (rounds, words, players, boards) resolve to physical
names through Tables; DefaultTables(prefix) builds the standard layout.
rounds carries the byShareCode secondary index for share-code lookup.
*/
package storage
