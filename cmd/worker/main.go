package main

import (
	"context"
	"log"
	"os"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/bootstrap"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/config"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(os.Stdout, "orderflow-worker", cfg.LogLevel)

	rt, err := bootstrap.New(ctx, cfg, logger, "orderflow-worker")
	if err != nil {
		log.Fatalf("failed to init runtime: %v", err)
	}
	defer rt.Close()

	p := NewProcessor(rt.Timeline, rt.Metrics, logger)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if cfg.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"id":"local-event-1","type":"order.placed","order_id":"local-order-1","occurred_at":"2025-01-01T12:00:00Z"}`
		}
		event := lambdaevents.SQSEvent{
			Records: []lambdaevents.SQSMessage{
				{MessageId: "local-1", Body: testBody},
			},
		}
		resp, err := p.Handle(ctx, event)
		if err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		if len(resp.BatchItemFailures) > 0 {
			log.Fatalf("local handler failed %d message(s)", len(resp.BatchItemFailures))
		}
		return
	}

	lambda.Start(p.Handle)
}
