package stain

import (
	"cmp"
	"reflect"
	"sync"
)

// Entry is one registered implementation in a collection.
// It pairs an ordering key and a display name with the lazily constructed,
// lock-guarded instance of its concrete type.
//
// Entries are created by Register, RegisterFunc, or NewEntry. An entry is
// immutable after registration; only its instance cell has mutable state,
// reached through the guard accessors.
type Entry[T any, O cmp.Ordered] struct {
	ordering O
	name     string
	resolve  func() reflect.Type
	cell     *cell[T]

	identityOnce sync.Once
	identity     reflect.Type

	// Assigned by Collection.Add; breaks ordering ties deterministically.
	seq uint64
}

// NewEntry creates an entry from its raw registration tuple: an ordering
// key, a display name, a deferred identity resolver, and a zero-argument
// constructor.
//
// Register and RegisterFunc cover the common cases and derive the tuple
// from a concrete type. NewEntry is the hook for code-generation layers
// that produce entries directly; the constructor must return an instance
// whose dynamic type is a pointer to the resolved identity.
//
// Panics if name is empty or resolve or construct is nil.
func NewEntry[T any, O cmp.Ordered](ordering O, name string, resolve func() reflect.Type, construct func() T) *Entry[T, O] {
	if name == "" {
		panic("stain: entry name cannot be empty")
	}
	if resolve == nil {
		panic("stain: identity resolver cannot be nil")
	}
	if construct == nil {
		panic("stain: constructor cannot be nil")
	}
	return &Entry[T, O]{
		ordering: ordering,
		name:     name,
		resolve:  resolve,
		cell:     newCell[T](name, construct),
	}
}

// Name returns the entry's display name.
func (e *Entry[T, O]) Name() string { return e.name }

// Ordering returns the entry's ordering key.
func (e *Entry[T, O]) Ordering() O { return e.ordering }

// Identity returns the entry's concrete type token.
// The resolver runs at most once; the result is cached for all later calls.
func (e *Entry[T, O]) Identity() reflect.Type {
	e.identityOnce.Do(func() {
		e.identity = e.resolve()
	})
	return e.identity
}

// Read acquires shared read access to the instance, constructing it first
// if needed. Callers must Release the guard when done.
func (e *Entry[T, O]) Read() *ReadGuard[T] {
	e.cell.materialize(e.Identity())
	e.cell.mu.RLock()
	return &ReadGuard[T]{cell: e.cell, name: e.name}
}

// Write acquires exclusive write access to the instance, constructing it
// first if needed. Callers must Release the guard when done.
func (e *Entry[T, O]) Write() *WriteGuard[T] {
	e.cell.materialize(e.Identity())
	e.cell.mu.Lock()
	return &WriteGuard[T]{cell: e.cell, name: e.name}
}
