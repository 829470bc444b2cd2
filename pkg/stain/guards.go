package stain

import (
	"cmp"
	"context"
	"reflect"

	"github.com/stainkit/stain/pkg/stain/observability"
)

// ReadGuard provides shared read access to an entry's instance through the
// item interface. The guard holds the instance read lock until Release.
//
// Value must not be used after Release, and a guard must stay on the
// goroutine that acquired it. Treat the instance as read-only under a read
// guard; mutation requires a write guard.
type ReadGuard[T any] struct {
	cell     *cell[T]
	name     string
	released bool
}

// Value returns the instance as the item interface.
func (g *ReadGuard[T]) Value() T { return g.cell.instance }

// Name returns the display name of the entry the guard came from.
func (g *ReadGuard[T]) Name() string { return g.name }

// Release unlocks the instance. Releasing twice is a no-op.
func (g *ReadGuard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.cell.mu.RUnlock()
}

// WriteGuard provides exclusive write access to an entry's instance
// through the item interface. The guard holds the instance write lock
// until Release; the same usage rules as ReadGuard apply.
type WriteGuard[T any] struct {
	cell     *cell[T]
	name     string
	released bool
}

// Value returns the instance as the item interface.
func (g *WriteGuard[T]) Value() T { return g.cell.instance }

// Name returns the display name of the entry the guard came from.
func (g *WriteGuard[T]) Name() string { return g.name }

// Release unlocks the instance. Releasing twice is a no-op.
func (g *WriteGuard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.cell.mu.Unlock()
}

// ConcreteReadGuard provides shared read access to an entry's instance
// downcast to its concrete type C.
type ConcreteReadGuard[C any] struct {
	value    *C
	name     string
	unlock   func()
	released bool
}

// Value returns the instance as a *C.
func (g *ConcreteReadGuard[C]) Value() *C { return g.value }

// Name returns the display name of the entry the guard came from.
func (g *ConcreteReadGuard[C]) Name() string { return g.name }

// Release unlocks the instance. Releasing twice is a no-op.
func (g *ConcreteReadGuard[C]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.unlock()
}

// ConcreteWriteGuard provides exclusive write access to an entry's
// instance downcast to its concrete type C.
type ConcreteWriteGuard[C any] struct {
	value    *C
	name     string
	unlock   func()
	released bool
}

// Value returns the instance as a *C.
func (g *ConcreteWriteGuard[C]) Value() *C { return g.value }

// Name returns the display name of the entry the guard came from.
func (g *ConcreteWriteGuard[C]) Name() string { return g.name }

// Release unlocks the instance. Releasing twice is a no-op.
func (g *ConcreteWriteGuard[C]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.unlock()
}

// ReadConcrete acquires read access to the entry's instance downcast to C,
// constructing the instance first if needed.
//
// Reports false, with the lock already released, when the instance is not
// a *C. A downcast miss is a normal outcome, not a fault.
func ReadConcrete[C any, T any, O cmp.Ordered](e *Entry[T, O]) (*ConcreteReadGuard[C], bool) {
	e.cell.materialize(e.Identity())
	e.cell.mu.RLock()
	v, ok := any(e.cell.instance).(*C)
	if !ok {
		e.cell.mu.RUnlock()
		observability.LogDowncastMiss(e.cell.logger, e.name, reflect.TypeFor[C]().String())
		e.cell.metrics.RecordDowncastMiss(context.Background(), e.name)
		return nil, false
	}
	return &ConcreteReadGuard[C]{value: v, name: e.name, unlock: e.cell.mu.RUnlock}, true
}

// WriteConcrete acquires write access to the entry's instance downcast to
// C, constructing the instance first if needed.
//
// Reports false, with the lock already released, when the instance is not
// a *C.
func WriteConcrete[C any, T any, O cmp.Ordered](e *Entry[T, O]) (*ConcreteWriteGuard[C], bool) {
	e.cell.materialize(e.Identity())
	e.cell.mu.Lock()
	v, ok := any(e.cell.instance).(*C)
	if !ok {
		e.cell.mu.Unlock()
		observability.LogDowncastMiss(e.cell.logger, e.name, reflect.TypeFor[C]().String())
		e.cell.metrics.RecordDowncastMiss(context.Background(), e.name)
		return nil, false
	}
	return &ConcreteWriteGuard[C]{value: v, name: e.name, unlock: e.cell.mu.Unlock}, true
}
