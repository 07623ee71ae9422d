package records

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/aws"
)

// DynamoStore maps each logical table to a DynamoDB table named prefix+table
// with a string partition key "id".
type DynamoStore struct {
	client aws.DynamoDBAPI
	prefix string
}

// NewDynamoStore creates a DynamoStore.
func NewDynamoStore(client aws.DynamoDBAPI, prefix string) *DynamoStore {
	return &DynamoStore{client: client, prefix: prefix}
}

func (s *DynamoStore) tableName(table string) *string {
	name := s.prefix + table
	return &name
}

func keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}}
}

func isConditionalFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}

func (s *DynamoStore) Insert(ctx context.Context, table string, rec Record) (Record, error) {
	if _, err := requireID(rec); err != nil {
		return nil, err
	}
	item, err := attributevalue.MarshalMap(map[string]any(rec))
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           s.tableName(table),
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionalFailure(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("put item: %w", err)
	}
	return clone(rec), nil
}

func (s *DynamoStore) Get(ctx context.Context, table, id string) (Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      s.tableName(table),
		Key:            keyOf(id),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return rec, nil
}

// buildUpdate renders the update and condition expressions for a patch.
// Field names are sorted so the expression is stable.
func buildUpdate(patch Record, conds []Condition) (*dyn.UpdateItemInput, error) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		if k != "id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var sets, removes []string
	for i, k := range keys {
		n := fmt.Sprintf("#f%d", i)
		names[n] = k
		if patch[k] == nil {
			removes = append(removes, n)
			continue
		}
		av, err := attributevalue.Marshal(patch[k])
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", k, err)
		}
		v := fmt.Sprintf(":f%d", i)
		values[v] = av
		sets = append(sets, n+" = "+v)
	}

	var expr []string
	if len(sets) > 0 {
		expr = append(expr, "SET "+strings.Join(sets, ", "))
	}
	if len(removes) > 0 {
		expr = append(expr, "REMOVE "+strings.Join(removes, ", "))
	}
	if len(expr) == 0 {
		return nil, errors.New("records: empty patch")
	}

	condExpr := []string{"attribute_exists(id)"}
	for i, c := range conds {
		n := fmt.Sprintf("#c%d", i)
		names[n] = c.Field
		if c.Absent {
			condExpr = append(condExpr, "attribute_not_exists("+n+")")
			continue
		}
		av, err := attributevalue.Marshal(c.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal condition %s: %w", c.Field, err)
		}
		v := fmt.Sprintf(":c%d", i)
		values[v] = av
		condExpr = append(condExpr, n+" = "+v)
	}

	in := &dyn.UpdateItemInput{
		UpdateExpression:         awsString(strings.Join(expr, " ")),
		ConditionExpression:      awsString(strings.Join(condExpr, " AND ")),
		ExpressionAttributeNames: names,
	}
	if len(values) > 0 {
		in.ExpressionAttributeValues = values
	}
	return in, nil
}

func (s *DynamoStore) Update(ctx context.Context, table, id string, patch Record, conds ...Condition) error {
	in, err := buildUpdate(patch, conds)
	if err != nil {
		return err
	}
	in.TableName = s.tableName(table)
	in.Key = keyOf(id)

	if _, err := s.client.UpdateItem(ctx, in); err != nil {
		if !isConditionalFailure(err) {
			return fmt.Errorf("update item: %w", err)
		}
		// attribute_exists(id) is part of the condition; tell the two failures apart.
		if _, getErr := s.Get(ctx, table, id); errors.Is(getErr, ErrNotFound) {
			return ErrNotFound
		}
		return ErrConditionFailed
	}
	return nil
}

func (s *DynamoStore) Select(ctx context.Context, table string, filter Filter) ([]Record, error) {
	in := &dyn.ScanInput{TableName: s.tableName(table)}
	if len(filter) > 0 {
		keys := make([]string, 0, len(filter))
		for k := range filter {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		names := map[string]string{}
		values := map[string]types.AttributeValue{}
		var parts []string
		for i, k := range keys {
			av, err := attributevalue.Marshal(filter[k])
			if err != nil {
				return nil, fmt.Errorf("marshal filter %s: %w", k, err)
			}
			n, v := fmt.Sprintf("#q%d", i), fmt.Sprintf(":q%d", i)
			names[n] = k
			values[v] = av
			parts = append(parts, n+" = "+v)
		}
		in.FilterExpression = awsString(strings.Join(parts, " AND "))
		in.ExpressionAttributeNames = names
		in.ExpressionAttributeValues = values
	}

	var out []Record
	for {
		page, err := s.client.Scan(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		for _, item := range page.Items {
			var rec Record
			if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			out = append(out, rec)
		}
		if len(page.LastEvaluatedKey) == 0 {
			return out, nil
		}
		in.ExclusiveStartKey = page.LastEvaluatedKey
	}
}

func awsString(s string) *string { return &s }
func awsBool(b bool) *bool       { return &b }
