// Package bootstrap builds the record store, event publisher and metrics
// recorder selected by configuration. Both binaries share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/auth"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/aws"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/config"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/events"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/menu"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/metrics"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/payments"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

// Tables lists every logical table the service writes.
var Tables = []string{
	auth.UsersTable,
	auth.CredentialsTable,
	menu.Table,
	orders.Table,
	payments.Table,
	idempotency.Table,
	events.TimelineTable,
}

// Runtime holds the collaborators built from Config. Close releases them.
type Runtime struct {
	Store    records.Store
	Timeline *events.Timeline
	Events   events.Publisher
	Metrics  metrics.Recorder

	closers []func() error
}

func (r *Runtime) Close() error {
	var errs []error
	for _, c := range slices.Backward(r.closers) {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func needsAWS(cfg *config.Config) bool {
	return cfg.Store.Backend == "dynamodb" ||
		cfg.Events.Backend == "sqs" || cfg.Events.Backend == "both" ||
		cfg.Metrics.Enabled
}

// New wires the runtime. service names the event source on broker messages.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger, service string) (*Runtime, error) {
	rt := &Runtime{Metrics: metrics.Nop{}}

	var clients *aws.AWSClients
	if needsAWS(cfg) {
		var err error
		clients, err = aws.NewAWSClients(ctx, aws.Settings{
			Region:           cfg.AWS.Region,
			EndpointOverride: cfg.AWS.EndpointOverride,
		})
		if err != nil {
			return nil, fmt.Errorf("init aws clients: %w", err)
		}
	}

	if err := rt.openStore(ctx, cfg, clients); err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Timeline = events.NewTimeline(rt.Store)

	if err := rt.openEvents(cfg, clients, service); err != nil {
		_ = rt.Close()
		return nil, err
	}

	if cfg.Metrics.Enabled {
		rt.Metrics = metrics.NewCloudWatch(clients.CloudWatch, cfg.Metrics.Namespace)
	}

	log.Info("runtime ready",
		slog.String("action", "bootstrap"),
		slog.String("store", cfg.Store.Backend),
		slog.String("events", cfg.Events.Backend),
		slog.Bool("metrics", cfg.Metrics.Enabled))
	return rt, nil
}

func (r *Runtime) openStore(ctx context.Context, cfg *config.Config, clients *aws.AWSClients) error {
	switch cfg.Store.Backend {
	case "dynamodb":
		r.Store = records.NewDynamoStore(clients.DynamoDB, cfg.Store.TablePrefix)
	case "postgres":
		pool, err := records.OpenPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		r.closers = append(r.closers, func() error { pool.Close(); return nil })
		pg := records.NewPostgresStore(pool, cfg.Store.TablePrefix)
		if err := pg.EnsureTables(ctx, Tables...); err != nil {
			return err
		}
		r.Store = pg
	default:
		r.Store = records.NewMemoryStore()
	}
	return nil
}

// openEvents picks the publisher. Without SQS the timeline is written inline,
// since no worker will see the events.
func (r *Runtime) openEvents(cfg *config.Config, clients *aws.AWSClients, service string) error {
	var pubs events.Multi
	switch cfg.Events.Backend {
	case "sqs", "both":
		pubs = append(pubs, events.NewSQSPublisher(aws.NewPublisher(clients.SQS, cfg.SQS.QueueURL)))
	default:
		pubs = append(pubs, r.Timeline)
	}

	if cfg.Events.Backend == "rabbitmq" || cfg.Events.Backend == "both" {
		conn, err := events.DialRabbit(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		r.closers = append(r.closers, conn.Close)
		rp, err := events.NewRabbitPublisher(conn.Channel(), cfg.RabbitMQ.Exchange, service)
		if err != nil {
			return err
		}
		pubs = append(pubs, rp)
	}

	if len(pubs) == 1 {
		r.Events = pubs[0]
		return nil
	}
	r.Events = pubs
	return nil
}
