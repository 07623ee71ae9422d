// Package idempotency guards order placement against client retries.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

// Store encapsulates idempotency operations against the record store.
type Store struct {
	store     records.Store
	ttlWindow time.Duration // default TTL window when creating entries
	nowFunc   func() time.Time
}

// NewStore returns a configured Store.
// ttlWindow: default TTL window (e.g., 48*time.Hour)
func NewStore(store records.Store, ttlWindow time.Duration) *Store {
	return &Store{
		store:     store,
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// CreateIfNotExists creates an idempotency record with status IN_PROGRESS if the key does not exist.
// Returns (created=true, nil) if successfully created.
// Returns (created=false, nil) if the record already exists (caller should Get to inspect).
// Returns (created=false, err) on other errors.
func (s *Store) CreateIfNotExists(ctx context.Context, key, orderID string) (bool, error) {
	now := s.nowFunc()
	rec, err := records.Encode(Record{
		Key:       key,
		Status:    StatusInProgress,
		OrderID:   orderID,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
		ExpiresAt: now.Add(s.ttlWindow).Unix(),
		Attempt:   1,
	})
	if err != nil {
		return false, err
	}
	if _, err := s.store.Insert(ctx, Table, rec); err != nil {
		if errors.Is(err, records.ErrConflict) {
			return false, nil
		}
		return false, fmt.Errorf("put idempotency record: %w", err)
	}
	return true, nil
}

// Get retrieves an idempotency record by key. If not found, returns (nil, nil).
func (s *Store) Get(ctx context.Context, key string) (*Record, error) {
	raw, err := s.store.Get(ctx, Table, key)
	if errors.Is(err, records.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get idempotency record: %w", err)
	}
	var rec Record
	if err := records.Decode(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Restart reopens a FAILED or expired entry for another attempt under the same key.
// The entry keeps its order id so the next attempt continues that order.
// Returns false when the entry is still live or another caller restarted it first.
func (s *Store) Restart(ctx context.Context, cur Record) (bool, error) {
	now := s.nowFunc()
	if cur.Status != StatusFailed && !cur.Expired(now) {
		return false, nil
	}
	patch := records.Record{
		"status":          StatusInProgress,
		"attempt":         cur.Attempt + 1,
		"updated_at":      now.UTC().Format(time.RFC3339Nano),
		"expires_at":      now.Add(s.ttlWindow).Unix(),
		"response_body":   nil,
		"response_status": nil,
		"note":            nil,
	}
	err := s.store.Update(ctx, Table, cur.Key, patch, records.Equals("attempt", cur.Attempt))
	if errors.Is(err, records.ErrConditionFailed) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restart idempotency record: %w", err)
	}
	return true, nil
}

// MarkDone sets status to DONE and stores a small response body & status.
// Only an IN_PROGRESS entry can complete.
func (s *Store) MarkDone(ctx context.Context, key, responseBody string, responseStatus int) error {
	patch := records.Record{
		"status":          StatusDone,
		"response_body":   responseBody,
		"response_status": responseStatus,
		"updated_at":      s.nowFunc().UTC().Format(time.RFC3339Nano),
	}
	if err := s.store.Update(ctx, Table, key, patch, records.Equals("status", StatusInProgress)); err != nil {
		return fmt.Errorf("mark done: %w", err)
	}
	return nil
}

// MarkFailed marks the idempotency record as FAILED and stores a note.
func (s *Store) MarkFailed(ctx context.Context, key, note string) error {
	patch := records.Record{
		"status":     StatusFailed,
		"note":       note,
		"updated_at": s.nowFunc().UTC().Format(time.RFC3339Nano),
	}
	if err := s.store.Update(ctx, Table, key, patch); err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}
