package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

// ErrStatusMismatch means a conditional write saw a different status or assignee
// than the caller read.
var ErrStatusMismatch = errors.New("status mismatch/conditional failed")

// Store encapsulates operations on the orders table.
type Store struct {
	records records.Store
}

// NewStore creates a new orders Store.
func NewStore(rs records.Store) *Store {
	return &Store{records: rs}
}

// Create inserts a new order.
func (s *Store) Create(ctx context.Context, o Order) error {
	rec, err := toRecord(o)
	if err != nil {
		return err
	}
	if _, err := s.records.Insert(ctx, Table, rec); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Get fetches an order by id.
func (s *Store) Get(ctx context.Context, id string) (Order, error) {
	rec, err := s.records.Get(ctx, Table, id)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return Order{}, apperr.NotFound("order", id)
		}
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	return fromRecord(rec)
}

// Query narrows List. Zero fields match everything.
type Query struct {
	CustomerID string
	Status     Status
}

// List returns matching orders oldest first, which is the order views treat as
// collection order.
func (s *Store) List(ctx context.Context, q Query) ([]Order, error) {
	filter := records.Filter{}
	if q.CustomerID != "" {
		filter["customer_id"] = q.CustomerID
	}
	if q.Status != "" {
		filter[fieldStatus] = string(q.Status)
	}
	recs, err := s.records.Select(ctx, Table, filter)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	out := make([]Order, 0, len(recs))
	for _, rec := range recs {
		o, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) update(ctx context.Context, id string, patch records.Record, conds ...records.Condition) error {
	err := s.records.Update(ctx, Table, id, patch, conds...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, records.ErrConditionFailed):
		return ErrStatusMismatch
	case errors.Is(err, records.ErrNotFound):
		return apperr.NotFound("order", id)
	default:
		return fmt.Errorf("update order: %w", err)
	}
}

// UpdateStatus conditionally updates the order status from expected -> next.
// Returns ErrStatusMismatch if the stored status is no longer expected.
func (s *Store) UpdateStatus(ctx context.Context, id string, expected, next Status, at time.Time) error {
	return s.update(ctx, id,
		records.Record{fieldStatus: string(next), fieldUpdatedAt: stamp(at)},
		records.Equals(fieldStatus, string(expected)))
}

// AssignDelivery claims a ready, unassigned order for staffID.
// Returns ErrStatusMismatch if the order left ready or was claimed meanwhile.
func (s *Store) AssignDelivery(ctx context.Context, id, staffID string, at time.Time) error {
	return s.update(ctx, id,
		records.Record{fieldDeliveryStaff: staffID, fieldUpdatedAt: stamp(at)},
		records.Equals(fieldStatus, string(StatusReady)),
		records.Absent(fieldDeliveryStaff))
}

// SetChef records the chef responsible for an order.
func (s *Store) SetChef(ctx context.Context, id, chefID string, at time.Time) error {
	return s.update(ctx, id, records.Record{fieldChef: chefID, fieldUpdatedAt: stamp(at)})
}

// SetPaymentStatus updates the payment status. When expected is non-empty the
// write only happens if the stored payment status still equals it.
func (s *Store) SetPaymentStatus(ctx context.Context, id string, expected, next PaymentStatus, at time.Time) error {
	var conds []records.Condition
	if expected != "" {
		conds = append(conds, records.Equals(fieldPaymentStatus, string(expected)))
	}
	return s.update(ctx, id,
		records.Record{fieldPaymentStatus: string(next), fieldUpdatedAt: stamp(at)},
		conds...)
}
