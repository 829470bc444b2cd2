package stain

import (
	"cmp"
	"reflect"
)

// Store is an immutable snapshot of a collection, created by Collect.
//
// Store is safe for unlimited concurrent use. Slice accessors return
// copies; the entries themselves are shared with the collection and with
// other snapshots, so instance state is common to all of them.
type Store[T any, O cmp.Ordered] struct {
	id         string
	collection string
	entries    []*Entry[T, O]
	byType     map[reflect.Type]*Entry[T, O]
	buckets    map[O][]*Entry[T, O]
	orderings  []O
}

// ID returns the snapshot's unique identifier, assigned at Collect.
func (s *Store[T, O]) ID() string { return s.id }

// Collection returns the name of the collection this store snapshots.
func (s *Store[T, O]) Collection() string { return s.collection }

// Len returns the number of entries after deduplication.
func (s *Store[T, O]) Len() int { return len(s.entries) }

// Entries returns all entries in canonical order: ascending ordering key,
// with registration order breaking ties.
func (s *Store[T, O]) Entries() []*Entry[T, O] {
	out := make([]*Entry[T, O], len(s.entries))
	copy(out, s.entries)
	return out
}

// Range calls fn for each entry in canonical order.
// If fn returns false, iteration stops.
func (s *Store[T, O]) Range(fn func(*Entry[T, O]) bool) {
	for _, e := range s.entries {
		if !fn(e) {
			return
		}
	}
}

// Ordering returns the entries registered under the given ordering key
// and whether that bucket exists. Entries within a bucket keep their
// registration order. A missing bucket is a normal empty result.
func (s *Store[T, O]) Ordering(key O) ([]*Entry[T, O], bool) {
	bucket, ok := s.buckets[key]
	if !ok {
		return nil, false
	}
	out := make([]*Entry[T, O], len(bucket))
	copy(out, bucket)
	return out, true
}

// Orderings returns the distinct ordering keys in ascending order.
func (s *Store[T, O]) Orderings() []O {
	out := make([]O, len(s.orderings))
	copy(out, s.orderings)
	return out
}

// Concrete returns a handle pinned to the entry whose concrete type is C,
// or false when the store holds no such entry. The lookup is a single map
// access; a miss is a normal empty result.
//
// Example:
//
//	ce, ok := stain.Concrete[EnvSource](store)
//	if ok {
//	    g := ce.Read()
//	    defer g.Release()
//	    fmt.Println(g.Value().Prefix) // g.Value() is *EnvSource
//	}
func Concrete[C any, T any, O cmp.Ordered](s *Store[T, O]) (*ConcreteEntry[C, T, O], bool) {
	e, ok := s.byType[reflect.TypeFor[C]()]
	if !ok {
		return nil, false
	}
	return &ConcreteEntry[C, T, O]{entry: e}, true
}

// ConcreteEntry is a handle pinned to one entry's concrete type.
// Its accessors skip the downcast checks of ReadConcrete and
// WriteConcrete; the pinning lookup already proved the type.
type ConcreteEntry[C any, T any, O cmp.Ordered] struct {
	entry *Entry[T, O]
}

// Name returns the pinned entry's display name.
func (ce *ConcreteEntry[C, T, O]) Name() string { return ce.entry.name }

// Ordering returns the pinned entry's ordering key.
func (ce *ConcreteEntry[C, T, O]) Ordering() O { return ce.entry.ordering }

// Entry returns the underlying entry.
func (ce *ConcreteEntry[C, T, O]) Entry() *Entry[T, O] { return ce.entry }

// Read acquires read access to the instance as a *C, constructing it
// first if needed. Callers must Release the guard.
func (ce *ConcreteEntry[C, T, O]) Read() *ConcreteReadGuard[C] {
	g, ok := ReadConcrete[C](ce.entry)
	if !ok {
		panic("stain: pinned entry does not hold its concrete type")
	}
	return g
}

// Write acquires write access to the instance as a *C, constructing it
// first if needed. Callers must Release the guard.
func (ce *ConcreteEntry[C, T, O]) Write() *ConcreteWriteGuard[C] {
	g, ok := WriteConcrete[C](ce.entry)
	if !ok {
		panic("stain: pinned entry does not hold its concrete type")
	}
	return g
}
