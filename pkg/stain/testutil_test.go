package stain

import (
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
)

// Test item interface and implementations used across tests.

// Plugin is the item interface most tests register against.
type Plugin interface {
	Describe() string
}

// Alpha is a plugin whose zero value is usable.
type Alpha struct {
	Tag  string
	Hits int
}

func (a *Alpha) Describe() string { return "alpha" }

// Beta is a second plugin type for multi-entry scenarios.
type Beta struct {
	Tag string
}

func (b *Beta) Describe() string { return "beta" }

// Gamma is a third plugin type.
type Gamma struct{}

func (g *Gamma) Describe() string { return "gamma" }

// Delta is a fourth plugin type.
type Delta struct{}

func (d *Delta) Describe() string { return "delta" }

// Fuel is a plugin whose zero value is not ready; tests construct it
// through RegisterFunc.
type Fuel struct {
	Level int
}

func (f *Fuel) Describe() string { return "fuel" }

// NotAPlugin implements nothing.
type NotAPlugin struct{}

// Collection names are claimed process-wide and test bodies rerun under
// go test -count, so every test-created collection needs a fresh name.
var collectionSeq atomic.Uint64

// testName returns a collection name unique to this test invocation.
func testName(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("%s-%d", t.Name(), collectionSeq.Add(1))
}

// identityOf returns an identity resolver for C, for raw NewEntry calls.
func identityOf[C any]() func() reflect.Type {
	return func() reflect.Type { return reflect.TypeFor[C]() }
}

// newTestCollection creates a Plugin collection with a unique name.
func newTestCollection(t *testing.T, opts ...CollectionOption) *Collection[Plugin, uint64] {
	t.Helper()
	return NewCollection[Plugin, uint64](testName(t), opts...)
}
