// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// SQL stores records as JSON documents in (pk, sk, doc, idx) tables,
// one per logical table. It works against Postgres (lib/pq) and SQLite
// (modernc.org/sqlite); conditional updates run the read-check-apply
// cycle inside a transaction so the port's conditional-write contract
// holds. The idx column carries the secondary-index attribute, when the
// table spec declares one.
type SQL struct {
	db     *sql.DB
	driver string
	tables Tables
}

// NewSQL wraps an open database handle. driver is "postgres" or
// "sqlite".
func NewSQL(db *sql.DB, driver string, tables Tables) *SQL {
	return &SQL{db: db, driver: driver, tables: tables}
}

// CreateSchema creates all document tables. Safe to call multiple
// times - uses IF NOT EXISTS.
func (s *SQL) CreateSchema(ctx context.Context) error {
	for _, spec := range s.tables {
		stmts := []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				pk TEXT NOT NULL,
				sk TEXT NOT NULL DEFAULT '',
				doc TEXT NOT NULL,
				idx TEXT,
				PRIMARY KEY (pk, sk)
			)`, spec.Name),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_idx ON %s(idx)`, spec.Name, spec.Name),
		}
		for _, stmt := range stmts {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to create schema for %s: %w", spec.Name, err)
			}
		}
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, table string, key Key) (Item, error) {
	spec, err := s.tables.Spec(table)
	if err != nil {
		return nil, err
	}
	var doc string
	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE pk = $1 AND sk = $2`, spec.Name),
		key.Partition, key.Sort,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return decodeDoc(doc)
}

func (s *SQL) Put(ctx context.Context, table string, key Key, item Item, cond Condition) error {
	spec, err := s.tables.Spec(table)
	if err != nil {
		return err
	}
	doc, idx, err := encodeDoc(item, spec)
	if err != nil {
		return err
	}

	switch cond.Kind {
	case CondNone:
		_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (pk, sk, doc, idx) VALUES ($1, $2, $3, $4)
			ON CONFLICT (pk, sk) DO UPDATE SET doc = excluded.doc, idx = excluded.idx
		`, spec.Name), key.Partition, key.Sort, doc, idx)
		if err != nil {
			return fmt.Errorf("put %s: %w", table, err)
		}
		return nil
	case CondNotExists:
		res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (pk, sk, doc, idx) VALUES ($1, $2, $3, $4)
			ON CONFLICT (pk, sk) DO NOTHING
		`, spec.Name), key.Partition, key.Sort, doc, idx)
		if err != nil {
			return fmt.Errorf("put %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("put %s: %w", table, err)
		}
		if n == 0 {
			return ErrConditionFailed
		}
		return nil
	default:
		return s.withRecord(ctx, spec, key, cond, func(tx *sql.Tx, _ Item) error {
			_, err := tx.ExecContext(ctx,
				fmt.Sprintf(`UPDATE %s SET doc = $1, idx = $2 WHERE pk = $3 AND sk = $4`, spec.Name),
				doc, idx, key.Partition, key.Sort)
			return err
		})
	}
}

func (s *SQL) Update(ctx context.Context, table string, key Key, ops []FieldOp, cond Condition) error {
	spec, err := s.tables.Spec(table)
	if err != nil {
		return err
	}
	return s.withRecord(ctx, spec, key, cond, func(tx *sql.Tx, item Item) error {
		if err := applyOps(item, ops); err != nil {
			return err
		}
		doc, idx, err := encodeDoc(item, spec)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET doc = $1, idx = $2 WHERE pk = $3 AND sk = $4`, spec.Name),
			doc, idx, key.Partition, key.Sort)
		return err
	})
}

// withRecord runs fn against the current record inside a transaction,
// after checking cond. A missing record fails the condition.
func (s *SQL) withRecord(ctx context.Context, spec TableSpec, key Key, cond Condition, fn func(tx *sql.Tx, item Item) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", spec.Name, err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`SELECT doc FROM %s WHERE pk = $1 AND sk = $2`, spec.Name)
	if s.driver == "postgres" {
		query += " FOR UPDATE"
	}

	var doc string
	err = tx.QueryRowContext(ctx, query, key.Partition, key.Sort).Scan(&doc)
	if err == sql.ErrNoRows {
		return ErrConditionFailed
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", spec.Name, err)
	}

	item, err := decodeDoc(doc)
	if err != nil {
		return err
	}
	if !checkCondition(item, cond) {
		return ErrConditionFailed
	}

	if err := fn(tx, item); err != nil {
		return fmt.Errorf("write %s: %w", spec.Name, err)
	}
	return tx.Commit()
}

func (s *SQL) Query(ctx context.Context, table string, partition string) ([]Item, error) {
	spec, err := s.tables.Spec(table)
	if err != nil {
		return nil, err
	}
	return s.queryDocs(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE pk = $1 ORDER BY sk`, spec.Name), partition)
}

func (s *SQL) QueryIndex(ctx context.Context, table string, index string, value string) ([]Item, error) {
	spec, err := s.tables.Spec(table)
	if err != nil {
		return nil, err
	}
	if spec.IndexName != index {
		return nil, &UnknownIndexError{Table: table, Index: index}
	}
	return s.queryDocs(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE idx = $1 ORDER BY pk, sk`, spec.Name), value)
}

func (s *SQL) Scan(ctx context.Context, table string) ([]Item, error) {
	spec, err := s.tables.Spec(table)
	if err != nil {
		return nil, err
	}
	return s.queryDocs(ctx,
		fmt.Sprintf(`SELECT doc FROM %s ORDER BY pk, sk`, spec.Name))
}

func (s *SQL) Delete(ctx context.Context, table string, key Key) error {
	spec, err := s.tables.Spec(table)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE pk = $1 AND sk = $2`, spec.Name),
		key.Partition, key.Sort)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func (s *SQL) queryDocs(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		item, err := decodeDoc(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func encodeDoc(item Item, spec TableSpec) (string, sql.NullString, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("encode doc: %w", err)
	}
	var idx sql.NullString
	if spec.IndexKey != "" {
		if v, ok := item[spec.IndexKey].(string); ok {
			idx = sql.NullString{String: v, Valid: true}
		}
	}
	return string(raw), idx, nil
}

func decodeDoc(doc string) (Item, error) {
	var item Item
	if err := json.Unmarshal([]byte(doc), &item); err != nil {
		return nil, fmt.Errorf("decode doc: %w", err)
	}
	return item, nil
}
