// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Dynamo implements Store on DynamoDB. Conditions and field ops
// translate to native condition and update expressions, so every
// conditional write is atomic on the server side.
type Dynamo struct {
	client *dynamodb.Client
	tables Tables
}

func NewDynamo(client *dynamodb.Client, tables Tables) *Dynamo {
	return &Dynamo{client: client, tables: tables}
}

func (d *Dynamo) Get(ctx context.Context, table string, key Key) (Item, error) {
	spec, err := d.tables.Spec(table)
	if err != nil {
		return nil, err
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(spec.Name),
		Key:       dynamoKey(spec, key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	return unmarshalAttrs(out.Item)
}

func (d *Dynamo) Put(ctx context.Context, table string, key Key, item Item, cond Condition) error {
	spec, err := d.tables.Spec(table)
	if err != nil {
		return err
	}
	attrs, err := attributevalue.MarshalMap(map[string]any(item))
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(spec.Name),
		Item:      attrs,
	}
	expr, names, values, err := conditionExpr(spec, cond)
	if err != nil {
		return err
	}
	if expr != "" {
		input.ConditionExpression = aws.String(expr)
		input.ExpressionAttributeNames = names
		if len(values) > 0 {
			input.ExpressionAttributeValues = values
		}
	}

	if _, err := d.client.PutItem(ctx, input); err != nil {
		return wrapDynamoErr("put "+table, err)
	}
	return nil
}

func (d *Dynamo) Update(ctx context.Context, table string, key Key, ops []FieldOp, cond Condition) error {
	spec, err := d.tables.Spec(table)
	if err != nil {
		return err
	}

	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	var setParts []string

	for i, op := range ops {
		field := fmt.Sprintf("#f%d", i)
		value := fmt.Sprintf(":v%d", i)
		names[field] = op.Field

		switch op.Kind {
		case OpSet, OpSetIndex, OpAdd:
			av, err := attributevalue.Marshal(op.Value)
			if err != nil {
				return fmt.Errorf("update %s: %w", table, err)
			}
			values[value] = av
		case OpAppend:
			// list_append takes lists on both sides
			av, err := attributevalue.Marshal([]any{op.Value})
			if err != nil {
				return fmt.Errorf("update %s: %w", table, err)
			}
			values[value] = av
		}

		switch op.Kind {
		case OpSet:
			setParts = append(setParts, fmt.Sprintf("%s = %s", field, value))
		case OpSetIndex:
			setParts = append(setParts, fmt.Sprintf("%s[%d] = %s", field, op.Index, value))
		case OpAdd:
			setParts = append(setParts, fmt.Sprintf("%s = %s + %s", field, field, value))
		case OpAppend:
			empty := fmt.Sprintf(":empty%d", i)
			values[empty] = &types.AttributeValueMemberL{Value: []types.AttributeValue{}}
			setParts = append(setParts,
				fmt.Sprintf("%s = list_append(if_not_exists(%s, %s), %s)", field, field, empty, value))
		default:
			return fmt.Errorf("update %s: unknown field op %d", table, op.Kind)
		}
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(spec.Name),
		Key:                       dynamoKey(spec, key),
		UpdateExpression:          aws.String("SET " + strings.Join(setParts, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}

	condExpr, condNames, condValues, err := conditionExpr(spec, cond)
	if err != nil {
		return err
	}
	if condExpr == "" {
		// Update never creates a record.
		condExpr, condNames, condValues, _ = conditionExpr(spec, Exists())
	}
	input.ConditionExpression = aws.String(condExpr)
	for k, v := range condNames {
		input.ExpressionAttributeNames[k] = v
	}
	for k, v := range condValues {
		input.ExpressionAttributeValues[k] = v
	}

	if _, err := d.client.UpdateItem(ctx, input); err != nil {
		return wrapDynamoErr("update "+table, err)
	}
	return nil
}

func (d *Dynamo) Query(ctx context.Context, table string, partition string) ([]Item, error) {
	spec, err := d.tables.Spec(table)
	if err != nil {
		return nil, err
	}
	return d.queryPages(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(spec.Name),
		KeyConditionExpression:    aws.String("#pk = :pk"),
		ExpressionAttributeNames:  map[string]string{"#pk": spec.PartitionKey},
		ExpressionAttributeValues: map[string]types.AttributeValue{":pk": &types.AttributeValueMemberS{Value: partition}},
	})
}

func (d *Dynamo) QueryIndex(ctx context.Context, table string, index string, value string) ([]Item, error) {
	spec, err := d.tables.Spec(table)
	if err != nil {
		return nil, err
	}
	if spec.IndexName != index {
		return nil, &UnknownIndexError{Table: table, Index: index}
	}
	return d.queryPages(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(spec.Name),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#ik = :ik"),
		ExpressionAttributeNames:  map[string]string{"#ik": spec.IndexKey},
		ExpressionAttributeValues: map[string]types.AttributeValue{":ik": &types.AttributeValueMemberS{Value: value}},
	})
}

func (d *Dynamo) queryPages(ctx context.Context, input *dynamodb.QueryInput) ([]Item, error) {
	items := []Item{}
	for {
		out, err := d.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", aws.ToString(input.TableName), err)
		}
		for _, attrs := range out.Items {
			item, err := unmarshalAttrs(attrs)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (d *Dynamo) Scan(ctx context.Context, table string) ([]Item, error) {
	spec, err := d.tables.Spec(table)
	if err != nil {
		return nil, err
	}
	items := []Item{}
	input := &dynamodb.ScanInput{TableName: aws.String(spec.Name)}
	for {
		out, err := d.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		for _, attrs := range out.Items {
			item, err := unmarshalAttrs(attrs)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (d *Dynamo) Delete(ctx context.Context, table string, key Key) error {
	spec, err := d.tables.Spec(table)
	if err != nil {
		return err
	}
	_, err = d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(spec.Name),
		Key:       dynamoKey(spec, key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func dynamoKey(spec TableSpec, key Key) map[string]types.AttributeValue {
	attrs := map[string]types.AttributeValue{
		spec.PartitionKey: &types.AttributeValueMemberS{Value: key.Partition},
	}
	if spec.SortKey != "" {
		attrs[spec.SortKey] = &types.AttributeValueMemberS{Value: key.Sort}
	}
	return attrs
}

func conditionExpr(spec TableSpec, cond Condition) (string, map[string]string, map[string]types.AttributeValue, error) {
	switch cond.Kind {
	case CondNone:
		return "", nil, nil, nil
	case CondNotExists:
		return "attribute_not_exists(#cpk)", map[string]string{"#cpk": spec.PartitionKey}, nil, nil
	case CondExists:
		return "attribute_exists(#cpk)", map[string]string{"#cpk": spec.PartitionKey}, nil, nil
	case CondSetContains:
		return "contains(#cf, :cv)",
			map[string]string{"#cf": cond.Field},
			map[string]types.AttributeValue{":cv": &types.AttributeValueMemberS{Value: cond.Value}},
			nil
	case CondSetNotContains:
		return "NOT contains(#cf, :cv)",
			map[string]string{"#cf": cond.Field},
			map[string]types.AttributeValue{":cv": &types.AttributeValueMemberS{Value: cond.Value}},
			nil
	default:
		return "", nil, nil, fmt.Errorf("unknown condition kind %d", cond.Kind)
	}
}

func unmarshalAttrs(attrs map[string]types.AttributeValue) (Item, error) {
	var item map[string]any
	if err := attributevalue.UnmarshalMap(attrs, &item); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return Item(item), nil
}

func wrapDynamoErr(op string, err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrConditionFailed
	}
	return fmt.Errorf("%s: %w", op, err)
}
