// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Store. One mutex guards all tables, which
// makes every conditional write trivially atomic. It backs the test
// suite and the zero-configuration dev mode.
type Memory struct {
	mu     sync.Mutex
	tables Tables
	data   map[string]map[Key]Item
}

func NewMemory(tables Tables) *Memory {
	return &Memory{
		tables: tables,
		data:   make(map[string]map[Key]Item),
	}
}

func (m *Memory) table(logical string) (map[Key]Item, TableSpec, error) {
	spec, err := m.tables.Spec(logical)
	if err != nil {
		return nil, TableSpec{}, err
	}
	t, ok := m.data[spec.Name]
	if !ok {
		t = make(map[Key]Item)
		m.data[spec.Name] = t
	}
	return t, spec, nil
}

func (m *Memory) Get(ctx context.Context, table string, key Key) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, _, err := m.table(table)
	if err != nil {
		return nil, err
	}
	item, ok := t[key]
	if !ok {
		return nil, ErrNotFound
	}
	return copyItem(item)
}

func (m *Memory) Put(ctx context.Context, table string, key Key, item Item, cond Condition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, _, err := m.table(table)
	if err != nil {
		return err
	}
	if !checkCondition(t[key], cond) {
		return ErrConditionFailed
	}
	stored, err := copyItem(item)
	if err != nil {
		return err
	}
	t[key] = stored
	return nil
}

func (m *Memory) Update(ctx context.Context, table string, key Key, ops []FieldOp, cond Condition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, _, err := m.table(table)
	if err != nil {
		return err
	}
	item, ok := t[key]
	if !ok {
		return ErrConditionFailed
	}
	if !checkCondition(item, cond) {
		return ErrConditionFailed
	}
	return applyOps(item, ops)
}

func (m *Memory) Query(ctx context.Context, table string, partition string) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, _, err := m.table(table)
	if err != nil {
		return nil, err
	}
	var keys []Key
	for k := range t {
		if k.Partition == partition {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Sort < keys[j].Sort })
	return m.collect(t, keys)
}

func (m *Memory) QueryIndex(ctx context.Context, table string, index string, value string) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, spec, err := m.table(table)
	if err != nil {
		return nil, err
	}
	if spec.IndexName != index {
		return nil, &UnknownIndexError{Table: table, Index: index}
	}
	var keys []Key
	for k, item := range t {
		if s, ok := item[spec.IndexKey].(string); ok && s == value {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Partition != keys[j].Partition {
			return keys[i].Partition < keys[j].Partition
		}
		return keys[i].Sort < keys[j].Sort
	})
	return m.collect(t, keys)
}

func (m *Memory) Scan(ctx context.Context, table string) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, _, err := m.table(table)
	if err != nil {
		return nil, err
	}
	var keys []Key
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Partition != keys[j].Partition {
			return keys[i].Partition < keys[j].Partition
		}
		return keys[i].Sort < keys[j].Sort
	})
	return m.collect(t, keys)
}

func (m *Memory) Delete(ctx context.Context, table string, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, _, err := m.table(table)
	if err != nil {
		return err
	}
	delete(t, key)
	return nil
}

func (m *Memory) collect(t map[Key]Item, keys []Key) ([]Item, error) {
	items := make([]Item, 0, len(keys))
	for _, k := range keys {
		item, err := copyItem(t[k])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// copyItem deep-copies so callers never alias stored state.
func copyItem(item Item) (Item, error) {
	out, err := normalize(item)
	if err != nil {
		return nil, err
	}
	return Item(out.(map[string]any)), nil
}

// UnknownIndexError reports a QueryIndex call against an index the
// table spec does not declare.
type UnknownIndexError struct {
	Table string
	Index string
}

func (e *UnknownIndexError) Error() string {
	return "table " + e.Table + " has no index " + e.Index
}
