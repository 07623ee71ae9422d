package main

import (
	"context"
	"fmt"
	"log/slog"

	lambdaevents "github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/events"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/metrics"
)

// Processor records queued order events on the per-order timeline.
type Processor struct {
	timeline *events.Timeline
	metrics  metrics.Recorder
	log      *slog.Logger
}

func NewProcessor(timeline *events.Timeline, rec metrics.Recorder, log *slog.Logger) *Processor {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Processor{timeline: timeline, metrics: rec, log: log.With(slog.String("action", "record_event"))}
}

// Handle processes a batch. Failed messages are reported individually so SQS
// redelivers only those; after the queue's max receives they land in the DLQ.
func (p *Processor) Handle(ctx context.Context, ev lambdaevents.SQSEvent) (lambdaevents.SQSEventResponse, error) {
	var resp lambdaevents.SQSEventResponse
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.log.Error("[worker] message failed",
				slog.String("message_id", rec.MessageId), slog.Any("error", err))
			resp.BatchItemFailures = append(resp.BatchItemFailures,
				lambdaevents.SQSBatchItemFailure{ItemIdentifier: rec.MessageId})
		}
	}
	return resp, nil
}

func (p *Processor) processMessage(ctx context.Context, rec lambdaevents.SQSMessage) error {
	e, err := events.Decode([]byte(rec.Body))
	if err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log := p.log.With(slog.String("event_id", e.ID), slog.String("order_id", e.OrderID))
	log.Debug("[worker] received", slog.String("type", string(e.Type)))

	added, err := p.timeline.Append(ctx, e)
	if err != nil {
		return err
	}
	if !added {
		// redelivery of an event we already stored
		log.Info("[worker] duplicate event")
		return nil
	}

	if err := p.metrics.EventRecorded(ctx, string(e.Type)); err != nil {
		log.Warn("[worker] metrics", slog.Any("error", err))
	}
	log.Info("[worker] recorded event")
	return nil
}
