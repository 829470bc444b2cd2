package stain

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/stainkit/stain/pkg/stain/observability"
)

// Collection accumulates entries for one item interface during the
// registration phase. Registration is append-only; duplicate concrete
// types and ordering are resolved by Collect, not here.
//
// A collection is typically a package-level variable that implementation
// packages register into from init functions. Registration is safe from
// concurrent goroutines. The startup contract is that registration
// completes before the first Collect; call Seal to enforce it.
//
// Example:
//
//	var Sources = stain.NewCollection[ConfigSource, uint64]("config-sources")
//
//	func init() {
//	    stain.Register[EnvSource](Sources, 40)
//	}
type Collection[T any, O cmp.Ordered] struct {
	name string

	mu      sync.Mutex
	entries []*Entry[T, O]
	lastSeq uint64

	sealed atomic.Bool

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// NewCollection creates a collection named name for item interface T and
// ordering key type O.
//
// Collection names are unique per process; they identify the collection in
// logs, metrics, and manifests the way the variable name identifies it in
// code. Panics if:
//   - T is not an interface type
//   - name is empty
//   - name is already in use by another collection
func NewCollection[T any, O cmp.Ordered](name string, opts ...CollectionOption) *Collection[T, O] {
	if tt := reflect.TypeFor[T](); tt.Kind() != reflect.Interface {
		panic(fmt.Sprintf("stain: collection item type %v is not an interface", tt))
	}
	claimCollectionName(name)

	cfg := defaultCollectionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Collection[T, O]{
		name:    name,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		spans:   cfg.spans,
	}
}

// Name returns the collection's name.
func (c *Collection[T, O]) Name() string { return c.name }

// Len returns the number of registrations so far, duplicates included.
func (c *Collection[T, O]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Add appends an entry to the collection and assigns its registration
// sequence number, which later breaks ordering ties in Collect.
//
// Returns ErrNilEntry or ErrSealed on misuse. Most callers want Register
// or RegisterFunc, which build the entry and panic instead, fitting init
// functions.
func (c *Collection[T, O]) Add(e *Entry[T, O]) error {
	if e == nil {
		return ErrNilEntry
	}
	if c.sealed.Load() {
		return fmt.Errorf("%w: %s", ErrSealed, c.name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastSeq++
	e.seq = c.lastSeq
	e.cell.logger = c.logger
	e.cell.metrics = c.metrics
	c.entries = append(c.entries, e)

	observability.LogRegistration(c.logger, c.name, e.name, fmt.Sprint(e.ordering))
	c.metrics.RecordRegistration(context.Background(), c.name)
	return nil
}

// Seal freezes the collection: later Add calls fail with ErrSealed and
// later Register calls panic. Collect works the same before and after.
// Sealing twice is a no-op.
func (c *Collection[T, O]) Seal() {
	if c.sealed.CompareAndSwap(false, true) {
		observability.LogSealed(c.logger, c.name, c.Len())
	}
}

// Sealed reports whether the collection has been sealed.
func (c *Collection[T, O]) Sealed() bool {
	return c.sealed.Load()
}

// Register adds concrete type C to the collection under the given
// ordering key. The entry's display name defaults to C's type name, its
// identity token resolves to C, and its instance is built as new(C) on
// first access.
//
// Register is meant to run from init functions and panics on misuse:
//   - c is nil
//   - *C does not implement the collection's item interface
//   - the collection is sealed
//
// Example:
//
//	func init() {
//	    stain.Register[JSONSource](Sources, 10)
//	    stain.Register[EnvSource](Sources, 40, stain.WithName("environment"))
//	}
func Register[C any, T any, O cmp.Ordered](c *Collection[T, O], ordering O, opts ...EntryOption) {
	registerEntry[C](c, ordering, func() T { return any(new(C)).(T) }, applyEntryOptions[C](opts))
}

// RegisterFunc is Register with an explicit constructor, for concrete
// types whose zero value is not ready to use. The constructor runs at most
// once, on first access.
//
// Example:
//
//	stain.RegisterFunc[Cache](Caches, 10, func() *Cache {
//	    return &Cache{entries: make(map[string][]byte)}
//	})
func RegisterFunc[C any, T any, O cmp.Ordered](c *Collection[T, O], ordering O, construct func() *C, opts ...EntryOption) {
	if construct == nil {
		panic("stain: constructor cannot be nil")
	}
	registerEntry[C](c, ordering, func() T { return any(construct()).(T) }, applyEntryOptions[C](opts))
}

// registerEntry is the shared body of Register and RegisterFunc.
func registerEntry[C any, T any, O cmp.Ordered](c *Collection[T, O], ordering O, construct func() T, cfg entryConfig) {
	if c == nil {
		panic("stain: collection cannot be nil")
	}
	mustImplement[C, T]()

	e := NewEntry[T, O](ordering, cfg.name, func() reflect.Type { return reflect.TypeFor[C]() }, construct)
	if err := c.Add(e); err != nil {
		panic(fmt.Sprintf("stain: register %s in %q: %v", cfg.name, c.name, err))
	}
}

// applyEntryOptions resolves the entry configuration for concrete type C.
func applyEntryOptions[C any](opts []EntryOption) entryConfig {
	name := reflect.TypeFor[C]().Name()
	if name == "" {
		name = reflect.TypeFor[C]().String()
	}
	cfg := entryConfig{name: name}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// mustImplement panics unless *C implements the item interface T.
// Checking at registration keeps the failure at init time, next to the
// registration that caused it.
func mustImplement[C any, T any]() {
	ct := reflect.PointerTo(reflect.TypeFor[C]())
	tt := reflect.TypeFor[T]()
	if !ct.Implements(tt) {
		panic(fmt.Sprintf("stain: %v does not implement %v", ct, tt))
	}
}
