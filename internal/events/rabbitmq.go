package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitPublisher publishes persistent JSON events to a fanout exchange.
type RabbitPublisher struct {
	ch       Channel
	exchange string
	source   string
}

// NewRabbitPublisher declares the fanout exchange and returns a publisher on it.
func NewRabbitPublisher(ch Channel, exchange, source string) (*RabbitPublisher, error) {
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &RabbitPublisher{ch: ch, exchange: exchange, source: source}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		MessageId:     e.ID,
		CorrelationId: e.OrderID,
		Timestamp:     e.OccurredAt,
		Type:          string(e.Type),
		Headers: amqp.Table{
			"x-source":     p.source,
			"x-actor-role": e.ActorRole,
		},
		Body: body,
	}
	// routing key is ignored by fanout exchanges
	if err := p.ch.PublishWithContext(ctx, p.exchange, "", false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

// RabbitConn owns the broker connection behind a RabbitPublisher.
type RabbitConn struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// DialRabbit connects to url and opens a channel.
func DialRabbit(url string) (*RabbitConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &RabbitConn{conn: conn, ch: ch}, nil
}

func (c *RabbitConn) Channel() *amqp.Channel { return c.ch }

func (c *RabbitConn) Close() error {
	_ = c.ch.Close()
	return c.conn.Close()
}
