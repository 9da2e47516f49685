package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	nodeCounter   otelmetric.Int64Counter
	nodeDuration  otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	nodeCounter, _ := meter.Int64Counter(
		"pipeline.nodes.processed",
		otelmetric.WithDescription("Number of pipeline nodes processed"),
	)

	nodeDuration, _ := meter.Float64Histogram(
		"pipeline.nodes.duration",
		otelmetric.WithDescription("Pipeline node processing duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		nodeCounter:   nodeCounter,
		nodeDuration:  nodeDuration,
	}
}

func (o *Observability) RecordNodeProcessed(ctx context.Context, node, status string) {
	if o.nodeCounter != nil {
		o.nodeCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("node", node),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordNodeDuration(ctx context.Context, node string, duration time.Duration) {
	if o.nodeDuration != nil {
		o.nodeDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("node", node),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
