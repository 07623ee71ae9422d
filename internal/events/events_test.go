package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/aws"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

type mockChannel struct{ mock.Mock }

func (m *mockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable).Error(0)
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, msg).Error(0)
}

func sampleEvent() Event {
	e := New(StatusChanged, "order-1", time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	e.OldStatus, e.NewStatus = "preparing", "ready"
	e.ActorID, e.ActorRole = "chef-1", "chef"
	return e
}

func TestRabbitPublisher_PublishesPersistentJSON(t *testing.T) {
	ch := &mockChannel{}
	ch.On("ExchangeDeclare", "notifications_fanout", "fanout", true).Return(nil)

	e := sampleEvent()
	ch.On("PublishWithContext", "notifications_fanout", "", mock.MatchedBy(func(msg amqp.Publishing) bool {
		var got Event
		if err := json.Unmarshal(msg.Body, &got); err != nil {
			return false
		}
		return msg.DeliveryMode == amqp.Persistent &&
			msg.ContentType == "application/json" &&
			msg.MessageId == e.ID &&
			msg.CorrelationId == "order-1" &&
			msg.Headers["x-source"] == "order-api" &&
			got.NewStatus == "ready"
	})).Return(nil)

	p, err := NewRabbitPublisher(ch, "notifications_fanout", "order-api")
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), e))
	ch.AssertExpectations(t)
}

func TestRabbitPublisher_DeclareFailure(t *testing.T) {
	ch := &mockChannel{}
	ch.On("ExchangeDeclare", "notifications_fanout", "fanout", true).Return(errors.New("channel closed"))

	_, err := NewRabbitPublisher(ch, "notifications_fanout", "order-api")
	assert.ErrorContains(t, err, "declare exchange")
}

type mockSQS struct {
	bodies []string
	attrs  []map[string]string
}

func (m *mockSQS) SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.bodies = append(m.bodies, *in.MessageBody)
	a := map[string]string{}
	for k, v := range in.MessageAttributes {
		a[k] = *v.StringValue
	}
	m.attrs = append(m.attrs, a)
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSPublisher(t *testing.T) {
	q := &mockSQS{}
	p := NewSQSPublisher(aws.NewPublisher(q, "queue"))

	e := sampleEvent()
	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, q.bodies, 1)

	got, err := Decode([]byte(q.bodies[0]))
	require.NoError(t, err)
	assert.Equal(t, e, got)
	assert.Equal(t, "order.status_changed", q.attrs[0]["event_type"])
	assert.Equal(t, e.ID, q.attrs[0]["event_id"])
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, Event) error { return f.err }

func TestMulti_JoinsErrors(t *testing.T) {
	q := &mockSQS{}
	boom := errors.New("boom")
	m := Multi{failingPublisher{boom}, NewSQSPublisher(aws.NewPublisher(q, "queue")), Nop{}}

	err := m.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, q.bodies, 1, "later publishers still run")
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"id":"e1","type":"order.placed"}`))
	assert.Error(t, err)
}

func TestTimeline_AppendIsIdempotentAndOrdered(t *testing.T) {
	ctx := context.Background()
	tl := NewTimeline(records.NewMemoryStore())
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	placed := New(OrderPlaced, "order-1", base)
	ready := New(StatusChanged, "order-1", base.Add(20*time.Minute))
	other := New(OrderPlaced, "order-2", base.Add(time.Minute))

	for _, e := range []Event{ready, placed, other} {
		fresh, err := tl.Append(ctx, e)
		require.NoError(t, err)
		assert.True(t, fresh)
	}
	fresh, err := tl.Append(ctx, ready)
	require.NoError(t, err)
	assert.False(t, fresh)

	got, err := tl.For(ctx, "order-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, placed.ID, got[0].ID)
	assert.Equal(t, ready.ID, got[1].ID)
	assert.True(t, got[1].OccurredAt.Equal(ready.OccurredAt))
}
