package stain

import (
	"log/slog"

	"github.com/stainkit/stain/pkg/stain/observability"
)

// collectionConfig holds per-collection configuration.
type collectionConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// defaultCollectionConfig returns the default configuration:
// no logging, no-op metrics, no-op tracing.
func defaultCollectionConfig() collectionConfig {
	return collectionConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// CollectionOption configures a collection at creation time.
type CollectionOption func(*collectionConfig)

// WithLogger sets the structured logger for registration, seal, collect,
// and instance-construction events.
// Default: no logging.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	col := stain.NewCollection[Plugin, uint64]("plugins", stain.WithLogger(logger))
func WithLogger(logger *slog.Logger) CollectionOption {
	return func(c *collectionConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for the collection.
// Default: disabled (no-op recorder).
//
// The recorder uses the global OTel meter provider. Configure the provider
// before creating the collection:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func WithMetrics(enabled bool) CollectionOption {
	return func(c *collectionConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry tracing for Collect.
// Default: disabled (no-op spans).
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before creating the collection.
func WithTracing(enabled bool) CollectionOption {
	return func(c *collectionConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// entryConfig holds per-registration configuration.
type entryConfig struct {
	name string
}

// EntryOption configures an entry at registration time.
type EntryOption func(*entryConfig)

// WithName overrides the entry's display name.
// Default: the concrete type's name. An empty name is ignored.
//
// Example:
//
//	stain.Register[EnvSource](Sources, 40, stain.WithName("environment"))
func WithName(name string) EntryOption {
	return func(c *entryConfig) {
		if name != "" {
			c.name = name
		}
	}
}
