// Package records is the record store the ordering core persists through.
// Records are flat snake_case maps keyed by "id"; timestamps are RFC 3339 strings.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrConflict        = errors.New("record already exists")
	ErrConditionFailed = errors.New("conditional check failed")
)

// Record is one row of a logical table.
type Record map[string]any

// ID returns the record's primary key.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Filter selects records whose fields equal every given value.
type Filter map[string]any

// Condition guards an Update. A zero Value with Absent set requires the field to be missing.
type Condition struct {
	Field  string
	Value  any
	Absent bool
}

// Equals requires field to currently hold v.
func Equals(field string, v any) Condition { return Condition{Field: field, Value: v} }

// Absent requires field to be missing.
func Absent(field string) Condition { return Condition{Field: field, Absent: true} }

// Store is implemented by MemoryStore, DynamoStore and PostgresStore.
type Store interface {
	// Insert adds rec, which must carry an id. Returns ErrConflict if the id exists.
	Insert(ctx context.Context, table string, rec Record) (Record, error)
	// Get returns ErrNotFound when id does not resolve.
	Get(ctx context.Context, table, id string) (Record, error)
	// Update merges patch into the record; nil values remove the field.
	// Returns ErrNotFound or ErrConditionFailed.
	Update(ctx context.Context, table, id string, patch Record, conds ...Condition) error
	// Select returns records matching filter; an empty filter matches all.
	Select(ctx context.Context, table string, filter Filter) ([]Record, error)
}

// Encode turns a json-tagged struct into a Record.
func Encode(v any) (Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

// Money reads a currency amount stored as a JSON number, rounded to cents.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Decode fills a json-tagged struct from a Record.
func Decode(rec Record, out any) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// normalize maps a value onto its JSON shape so values from any backend compare equal.
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

func sameValue(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func requireID(rec Record) (string, error) {
	id := rec.ID()
	if id == "" {
		return "", errors.New("records: record has no id")
	}
	return id, nil
}
