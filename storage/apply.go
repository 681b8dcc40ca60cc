// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"encoding/json"
	"fmt"
)

// Shared condition and field-op evaluation for the memory and SQL
// backends, so every backend agrees on conditional-write semantics.
// The DynamoDB backend translates the same operations to native
// expressions instead.

// checkCondition evaluates cond against the current record state.
// item is nil when no record exists.
func checkCondition(item Item, cond Condition) bool {
	exists := item != nil
	switch cond.Kind {
	case CondNone:
		return true
	case CondNotExists:
		return !exists
	case CondExists:
		return exists
	case CondSetContains:
		return exists && listContains(item[cond.Field], cond.Value)
	case CondSetNotContains:
		return exists && !listContains(item[cond.Field], cond.Value)
	default:
		return false
	}
}

func listContains(field any, value string) bool {
	list, ok := field.([]any)
	if !ok {
		return false
	}
	for _, v := range list {
		if s, ok := v.(string); ok && s == value {
			return true
		}
	}
	return false
}

// applyOps mutates item in place. Values pass through a JSON round trip
// so the stored representation stays canonical regardless of what Go
// type the caller handed in.
func applyOps(item Item, ops []FieldOp) error {
	for _, op := range ops {
		switch op.Kind {
		case OpSet:
			v, err := normalize(op.Value)
			if err != nil {
				return err
			}
			item[op.Field] = v
		case OpSetIndex:
			list, ok := item[op.Field].([]any)
			if !ok {
				return fmt.Errorf("field %q is not a list", op.Field)
			}
			if op.Index < 0 || op.Index >= len(list) {
				return fmt.Errorf("index %d out of range for field %q", op.Index, op.Field)
			}
			v, err := normalize(op.Value)
			if err != nil {
				return err
			}
			list[op.Index] = v
		case OpAdd:
			delta, ok := op.Value.(float64)
			if !ok {
				return fmt.Errorf("add delta for field %q is not numeric", op.Field)
			}
			current, _ := item[op.Field].(float64)
			item[op.Field] = current + delta
		case OpAppend:
			v, err := normalize(op.Value)
			if err != nil {
				return err
			}
			list, _ := item[op.Field].([]any)
			item[op.Field] = append(list, v)
		default:
			return fmt.Errorf("unknown field op %d", op.Kind)
		}
	}
	return nil
}

func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("normalize value: %w", err)
	}
	return out, nil
}
