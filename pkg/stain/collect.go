package stain

import (
	"context"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/stainkit/stain/pkg/stain/observability"
)

// Collect snapshots the collection into an immutable Store.
//
// Entries are deduplicated by identity (the last registration of a
// concrete type wins), sorted by ascending ordering with registration
// order breaking ties, and grouped into per-ordering buckets. The
// resulting sequence is deterministic for a given registration history.
//
// Collect reads only registration state; it never touches instance locks,
// so it cannot block behind a held guard and acquires no lock ordering
// against them. Calling Collect again later produces an independent
// snapshot sharing the same instances; entries registered in between
// appear only in the newer snapshot.
func (c *Collection[T, O]) Collect() *Store[T, O] {
	storeID := uuid.New().String()
	ctx, span := c.spans.StartCollectSpan(context.Background(), c.name, storeID)
	start := time.Now()

	c.mu.Lock()
	snapshot := make([]*Entry[T, O], len(c.entries))
	copy(snapshot, c.entries)
	c.mu.Unlock()

	// Later registrations overwrite earlier ones per identity.
	byType := make(map[reflect.Type]*Entry[T, O], len(snapshot))
	for _, e := range snapshot {
		byType[e.Identity()] = e
	}

	entries := make([]*Entry[T, O], 0, len(byType))
	for _, e := range byType {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ordering != entries[j].ordering {
			return entries[i].ordering < entries[j].ordering
		}
		return entries[i].seq < entries[j].seq
	})

	buckets := make(map[O][]*Entry[T, O])
	orderings := make([]O, 0, len(buckets))
	for _, e := range entries {
		if len(orderings) == 0 || orderings[len(orderings)-1] != e.ordering {
			orderings = append(orderings, e.ordering)
		}
		buckets[e.ordering] = append(buckets[e.ordering], e)
	}

	s := &Store[T, O]{
		id:         storeID,
		collection: c.name,
		entries:    entries,
		byType:     byType,
		buckets:    buckets,
		orderings:  orderings,
	}

	duration := time.Since(start)
	observability.LogCollect(c.logger, c.name, storeID, len(entries), len(snapshot)-len(entries),
		float64(duration.Milliseconds()))
	c.metrics.RecordCollect(ctx, c.name, len(entries), duration)
	c.spans.EndSpanWithError(span, nil)
	return s
}
