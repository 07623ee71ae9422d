// Package metrics records business counters to CloudWatch.
package metrics

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/aws"
)

// Recorder is implemented by CloudWatch and Nop.
type Recorder interface {
	OrderPlaced(ctx context.Context, orderType string, total float64) error
	StatusChanged(ctx context.Context, from, to string) error
	EventRecorded(ctx context.Context, eventType string) error
}

type Nop struct{}

func (Nop) OrderPlaced(context.Context, string, float64) error  { return nil }
func (Nop) StatusChanged(context.Context, string, string) error { return nil }
func (Nop) EventRecorded(context.Context, string) error         { return nil }

// CloudWatch publishes one PutMetricData call per observation.
type CloudWatch struct {
	client    aws.CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

func NewCloudWatch(client aws.CloudWatchAPI, namespace string) *CloudWatch {
	return &CloudWatch{client: client, namespace: namespace, nowFunc: time.Now}
}

func dim(name, value string) cwtypes.Dimension {
	return cwtypes.Dimension{Name: sdkaws.String(name), Value: sdkaws.String(value)}
}

func (c *CloudWatch) put(ctx context.Context, data ...cwtypes.MetricDatum) error {
	now := c.nowFunc()
	for i := range data {
		data[i].Timestamp = &now
	}
	_, err := c.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  sdkaws.String(c.namespace),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

func (c *CloudWatch) OrderPlaced(ctx context.Context, orderType string, total float64) error {
	return c.put(ctx,
		cwtypes.MetricDatum{
			MetricName: sdkaws.String("OrdersPlaced"),
			Dimensions: []cwtypes.Dimension{dim("OrderType", orderType)},
			Unit:       cwtypes.StandardUnitCount,
			Value:      sdkaws.Float64(1),
		},
		cwtypes.MetricDatum{
			MetricName: sdkaws.String("OrderValue"),
			Dimensions: []cwtypes.Dimension{dim("OrderType", orderType)},
			Unit:       cwtypes.StandardUnitNone,
			Value:      sdkaws.Float64(total),
		},
	)
}

func (c *CloudWatch) StatusChanged(ctx context.Context, from, to string) error {
	return c.put(ctx, cwtypes.MetricDatum{
		MetricName: sdkaws.String("StatusTransitions"),
		Dimensions: []cwtypes.Dimension{dim("From", from), dim("To", to)},
		Unit:       cwtypes.StandardUnitCount,
		Value:      sdkaws.Float64(1),
	})
}

func (c *CloudWatch) EventRecorded(ctx context.Context, eventType string) error {
	return c.put(ctx, cwtypes.MetricDatum{
		MetricName: sdkaws.String("OrderEventsRecorded"),
		Dimensions: []cwtypes.Dimension{dim("EventType", eventType)},
		Unit:       cwtypes.StandardUnitCount,
		Value:      sdkaws.Float64(1),
	})
}
