// Package events carries order lifecycle notifications to the queue, the
// notification fanout and the per-order timeline.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	OrderPlaced    Type = "order.placed"
	StatusChanged  Type = "order.status_changed"
	OrderAssigned  Type = "order.assigned"
	PaymentUpdated Type = "order.payment_updated"
)

// Event is the JSON body published for every order change.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	OrderID    string    `json:"order_id"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	ActorRole  string    `json:"actor_role,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps a fresh event id.
func New(t Type, orderID string, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OrderID:    orderID,
		OccurredAt: at.UTC(),
	}
}

func (e Event) Validate() error {
	switch {
	case e.ID == "":
		return errors.New("event: missing id")
	case e.OrderID == "":
		return errors.New("event: missing order_id")
	case e.Type == "":
		return errors.New("event: missing type")
	}
	return nil
}

// Decode parses and validates a message body.
func Decode(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, err
	}
	return e, e.Validate()
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
