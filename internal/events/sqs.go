package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/aws"
)

// SQSPublisher sends events to the orders queue consumed by the worker.
type SQSPublisher struct {
	pub *aws.Publisher
}

func NewSQSPublisher(pub *aws.Publisher) *SQSPublisher {
	return &SQSPublisher{pub: pub}
}

func (p *SQSPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	attrs := map[string]string{
		"event_type": string(e.Type),
		"order_id":   e.OrderID,
		"event_id":   e.ID,
	}
	if err := p.pub.Send(ctx, string(body), attrs); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}
