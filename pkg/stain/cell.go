package stain

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/stainkit/stain/pkg/stain/observability"
)

// cell holds the shared instance for one entry.
// The instance is built lazily, exactly once, and guarded by mu afterwards.
// cell never outlives its entry and is only reached through entry accessors.
type cell[T any] struct {
	mu        sync.RWMutex
	once      sync.Once
	construct func() T
	instance  T
	ready     bool

	// Diagnostics only. logger and metrics are injected when the owning
	// entry is added to a collection.
	name    string
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// newCell creates an unmaterialized cell for the given constructor.
func newCell[T any](name string, construct func() T) *cell[T] {
	return &cell[T]{
		name:      name,
		construct: construct,
		metrics:   observability.NoopMetrics{},
	}
}

// materialize builds the instance on first call and verifies that its
// dynamic type is a pointer to the registered identity. Concurrent callers
// block until the single construction completes.
//
// A constructor panic propagates to the first caller and poisons the cell;
// every later call panics with a fixed message instead of retrying. A
// constructed instance of the wrong dynamic type is treated the same way:
// it is a programming error in the registration, not a recoverable miss.
func (c *cell[T]) materialize(want reflect.Type) {
	c.once.Do(func() {
		start := time.Now()
		defer func() {
			c.metrics.RecordInstanceInit(context.Background(), c.name, time.Since(start), c.ready)
			if !c.ready {
				observability.LogInstancePanic(c.logger, c.name)
			}
		}()

		inst := c.construct()
		if got := reflect.TypeOf(inst); got != reflect.PointerTo(want) {
			panic(fmt.Sprintf("stain: instance %q: constructor returned %v, registered type is %v",
				c.name, got, reflect.PointerTo(want)))
		}

		c.instance = inst
		c.construct = nil
		c.ready = true
		observability.LogInstanceReady(c.logger, c.name, float64(time.Since(start).Milliseconds()))
	})
	if !c.ready {
		panic(fmt.Sprintf("stain: instance %q: constructor panicked, cell is poisoned", c.name))
	}
}
