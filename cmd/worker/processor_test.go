package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/events"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/logging"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

type countingRecorder struct {
	recorded []string
}

func (c *countingRecorder) OrderPlaced(context.Context, string, float64) error  { return nil }
func (c *countingRecorder) StatusChanged(context.Context, string, string) error { return nil }
func (c *countingRecorder) EventRecorded(_ context.Context, t string) error {
	c.recorded = append(c.recorded, t)
	return nil
}

func message(t *testing.T, id string, e events.Event) lambdaevents.SQSMessage {
	t.Helper()
	body, err := json.Marshal(e)
	require.NoError(t, err)
	return lambdaevents.SQSMessage{MessageId: id, Body: string(body)}
}

func TestWorkerProcess_Success(t *testing.T) {
	timeline := events.NewTimeline(records.NewMemoryStore())
	rec := &countingRecorder{}
	p := NewProcessor(timeline, rec, logging.Discard())

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	placed := events.New(events.OrderPlaced, "o1", at)
	changed := events.New(events.StatusChanged, "o1", at.Add(time.Minute))
	changed.OldStatus, changed.NewStatus = "pending", "confirmed"

	resp, err := p.Handle(context.Background(), lambdaevents.SQSEvent{
		Records: []lambdaevents.SQSMessage{message(t, "m1", changed), message(t, "m2", placed)},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.BatchItemFailures)

	got, err := timeline.For(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, events.OrderPlaced, got[0].Type)
	assert.Equal(t, "confirmed", got[1].NewStatus)
	assert.Equal(t, []string{string(events.StatusChanged), string(events.OrderPlaced)}, rec.recorded)
}

func TestWorkerProcess_DuplicateIsSuccess(t *testing.T) {
	timeline := events.NewTimeline(records.NewMemoryStore())
	rec := &countingRecorder{}
	p := NewProcessor(timeline, rec, logging.Discard())

	e := events.New(events.OrderPlaced, "o1", time.Now())
	batch := lambdaevents.SQSEvent{Records: []lambdaevents.SQSMessage{message(t, "m1", e)}}

	for range 2 {
		resp, err := p.Handle(context.Background(), batch)
		require.NoError(t, err)
		assert.Empty(t, resp.BatchItemFailures)
	}

	got, err := timeline.For(context.Background(), "o1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Len(t, rec.recorded, 1, "metrics count each event once")
}

func TestWorkerProcess_ReportsBadMessages(t *testing.T) {
	timeline := events.NewTimeline(records.NewMemoryStore())
	p := NewProcessor(timeline, nil, logging.Discard())

	good := events.New(events.OrderAssigned, "o2", time.Now())
	resp, err := p.Handle(context.Background(), lambdaevents.SQSEvent{
		Records: []lambdaevents.SQSMessage{
			{MessageId: "bad-json", Body: "{not json"},
			{MessageId: "no-order", Body: `{"id":"e1","type":"order.placed"}`},
			message(t, "ok", good),
		},
	})
	require.NoError(t, err)

	var failed []string
	for _, f := range resp.BatchItemFailures {
		failed = append(failed, f.ItemIdentifier)
	}
	assert.Equal(t, []string{"bad-json", "no-order"}, failed)

	got, err := timeline.For(context.Background(), "o2")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
