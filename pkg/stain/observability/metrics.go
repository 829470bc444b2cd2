package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRegistration records an entry being added to a collection.
	RecordRegistration(ctx context.Context, collection string)

	// RecordCollect records a snapshot build with its size and duration.
	RecordCollect(ctx context.Context, collection string, entries int, duration time.Duration)

	// RecordInstanceInit records a lazy instance construction with its
	// duration and whether the constructor succeeded.
	RecordInstanceInit(ctx context.Context, entry string, duration time.Duration, success bool)

	// RecordDowncastMiss records a concrete-type access that did not match.
	RecordDowncastMiss(ctx context.Context, entry string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	registrations   metric.Int64Counter
	collects        metric.Int64Counter
	collectLatency  metric.Float64Histogram
	collectEntries  metric.Int64Histogram
	instanceInits   metric.Int64Counter
	instanceLatency metric.Float64Histogram
	downcastMisses  metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("stain")

	registrations, err := meter.Int64Counter("stain.registrations",
		metric.WithDescription("Number of entry registrations"),
	)
	if err != nil {
		return nil, err
	}

	collects, err := meter.Int64Counter("stain.collects",
		metric.WithDescription("Number of snapshot builds"),
	)
	if err != nil {
		return nil, err
	}

	collectLatency, err := meter.Float64Histogram("stain.collect.latency_ms",
		metric.WithDescription("Snapshot build latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	collectEntries, err := meter.Int64Histogram("stain.collect.entries",
		metric.WithDescription("Entries per snapshot after deduplication"),
	)
	if err != nil {
		return nil, err
	}

	instanceInits, err := meter.Int64Counter("stain.instance.inits",
		metric.WithDescription("Number of lazy instance constructions"),
	)
	if err != nil {
		return nil, err
	}

	instanceLatency, err := meter.Float64Histogram("stain.instance.init_latency_ms",
		metric.WithDescription("Instance construction latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	downcastMisses, err := meter.Int64Counter("stain.downcast.misses",
		metric.WithDescription("Number of concrete-type access misses"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		registrations:   registrations,
		collects:        collects,
		collectLatency:  collectLatency,
		collectEntries:  collectEntries,
		instanceInits:   instanceInits,
		instanceLatency: instanceLatency,
		downcastMisses:  downcastMisses,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordRegistration records an entry registration.
func (m *otelMetrics) RecordRegistration(ctx context.Context, collection string) {
	attrs := []attribute.KeyValue{
		attribute.String("collection", collection),
	}
	m.registrations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCollect records a snapshot build.
func (m *otelMetrics) RecordCollect(ctx context.Context, collection string, entries int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("collection", collection),
	}
	m.collects.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.collectLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.collectEntries.Record(ctx, int64(entries), metric.WithAttributes(attrs...))
}

// RecordInstanceInit records a lazy instance construction.
func (m *otelMetrics) RecordInstanceInit(ctx context.Context, entry string, duration time.Duration, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("entry", entry),
		attribute.Bool("success", success),
	}
	m.instanceInits.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.instanceLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordDowncastMiss records a concrete-type access miss.
func (m *otelMetrics) RecordDowncastMiss(ctx context.Context, entry string) {
	attrs := []attribute.KeyValue{
		attribute.String("entry", entry),
	}
	m.downcastMisses.Add(ctx, 1, metric.WithAttributes(attrs...))
}
