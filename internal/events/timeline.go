package events

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

const TimelineTable = "order_events"

// Timeline is the per-order history of events, keyed by event id so that
// redelivered messages are recorded once.
type Timeline struct {
	store records.Store
}

func NewTimeline(store records.Store) *Timeline {
	return &Timeline{store: store}
}

// Append records e. It reports false when the event was already recorded.
func (t *Timeline) Append(ctx context.Context, e Event) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, err
	}
	rec, err := records.Encode(e)
	if err != nil {
		return false, err
	}
	if _, err := t.store.Insert(ctx, TimelineTable, rec); err != nil {
		if errors.Is(err, records.ErrConflict) {
			return false, nil
		}
		return false, fmt.Errorf("append event %s: %w", e.ID, err)
	}
	return true, nil
}

// For returns the events of one order, oldest first.
func (t *Timeline) For(ctx context.Context, orderID string) ([]Event, error) {
	recs, err := t.store.Select(ctx, TimelineTable, records.Filter{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	out := make([]Event, 0, len(recs))
	for _, rec := range recs {
		var e Event
		if err := records.Decode(rec, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

// Publish records e directly. Used when no queue sits between the API and the timeline.
func (t *Timeline) Publish(ctx context.Context, e Event) error {
	_, err := t.Append(ctx, e)
	return err
}
