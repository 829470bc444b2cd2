// Package observability provides production-grade observability features
// for stain registries: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds registry context to a logger.
// Returns a new logger with collection and store_id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "config.sources", store.ID())
//	enriched.Info("applying sources") // includes collection, store_id
func EnrichLogger(logger *slog.Logger, collection, storeID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("collection", collection),
		slog.String("store_id", storeID),
	)
}

// LogRegistration logs an entry joining a collection.
func LogRegistration(logger *slog.Logger, collection, entry, ordering string) {
	if logger == nil {
		return
	}
	logger.Debug("entry registered",
		slog.String("collection", collection),
		slog.String("entry", entry),
		slog.String("ordering", ordering),
	)
}

// LogSealed logs a collection being sealed against further registration.
func LogSealed(logger *slog.Logger, collection string, entries int) {
	if logger == nil {
		return
	}
	logger.Info("collection sealed",
		slog.String("collection", collection),
		slog.Int("entries", entries),
	)
}

// LogCollect logs a snapshot being built from a collection.
func LogCollect(logger *slog.Logger, collection, storeID string, entries, duplicatesDropped int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("collection snapshot created",
		slog.String("collection", collection),
		slog.String("store_id", storeID),
		slog.Int("entries", entries),
		slog.Int("duplicates_dropped", duplicatesDropped),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogInstanceReady logs successful lazy construction of an entry's instance.
func LogInstanceReady(logger *slog.Logger, entry string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("instance constructed",
		slog.String("entry", entry),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogInstancePanic logs a constructor panic. The instance stays unusable.
func LogInstancePanic(logger *slog.Logger, entry string) {
	if logger == nil {
		return
	}
	logger.Error("instance constructor panicked",
		slog.String("entry", entry),
	)
}

// LogDowncastMiss logs a concrete-type access that did not match (non-fatal).
func LogDowncastMiss(logger *slog.Logger, entry, wantType string) {
	if logger == nil {
		return
	}
	logger.Debug("concrete access missed",
		slog.String("entry", entry),
		slog.String("want_type", wantType),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
