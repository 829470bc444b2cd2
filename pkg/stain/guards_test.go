package stain

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alphaEntry(name string) *Entry[Plugin, uint64] {
	return NewEntry[Plugin, uint64](0, name, identityOf[Alpha](), func() Plugin { return &Alpha{} })
}

func TestReadGuard_ValueAndName(t *testing.T) {
	e := alphaEntry("alpha")

	g := e.Read()
	defer g.Release()

	assert.Equal(t, "alpha", g.Name())
	assert.Equal(t, "alpha", g.Value().Describe())
}

func TestReadGuard_ReleaseTwice(t *testing.T) {
	e := alphaEntry("alpha")

	g := e.Read()
	g.Release()
	assert.NotPanics(t, func() { g.Release() })

	// The lock must be back in a clean state: a write acquires it.
	w := e.Write()
	w.Release()
}

func TestWriteGuard_ReleaseTwice(t *testing.T) {
	e := alphaEntry("alpha")

	g := e.Write()
	g.Release()
	assert.NotPanics(t, func() { g.Release() })

	w := e.Write()
	w.Release()
}

func TestReadGuards_Shared(t *testing.T) {
	e := alphaEntry("alpha")

	// Multiple read guards coexist.
	g1 := e.Read()
	g2 := e.Read()

	assert.Equal(t, g1.Value(), g2.Value())

	g1.Release()
	g2.Release()
}

func TestWriteGuard_MutualExclusion(t *testing.T) {
	e := alphaEntry("counter")

	var wg sync.WaitGroup
	n := 200
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, ok := WriteConcrete[Alpha](e)
			if assert.True(t, ok) {
				// Unsynchronized increment; the write lock is the only
				// thing keeping this correct.
				g.Value().Hits++
				g.Release()
			}
		}()
	}
	wg.Wait()

	g, ok := ReadConcrete[Alpha](e)
	require.True(t, ok)
	defer g.Release()
	assert.Equal(t, n, g.Value().Hits)
}

func TestReadConcrete_Hit(t *testing.T) {
	e := NewEntry[Plugin, uint64](0, "alpha",
		func() reflect.Type { return reflect.TypeFor[Alpha]() },
		func() Plugin { return &Alpha{Tag: "concrete"} })

	g, ok := ReadConcrete[Alpha](e)
	require.True(t, ok)
	defer g.Release()

	assert.Equal(t, "alpha", g.Name())
	assert.Equal(t, "concrete", g.Value().Tag)
}

func TestReadConcrete_Miss(t *testing.T) {
	e := alphaEntry("alpha")

	g, ok := ReadConcrete[Beta](e)
	assert.False(t, ok)
	assert.Nil(t, g)

	// The miss must release the lock; a write acquires it.
	w := e.Write()
	w.Release()
}

func TestWriteConcrete_Hit(t *testing.T) {
	e := alphaEntry("alpha")

	g, ok := WriteConcrete[Alpha](e)
	require.True(t, ok)
	g.Value().Tag = "mutated"
	g.Release()

	r, ok := ReadConcrete[Alpha](e)
	require.True(t, ok)
	defer r.Release()
	assert.Equal(t, "mutated", r.Value().Tag)
}

func TestWriteConcrete_Miss(t *testing.T) {
	e := alphaEntry("alpha")

	g, ok := WriteConcrete[Beta](e)
	assert.False(t, ok)
	assert.Nil(t, g)

	w := e.Write()
	w.Release()
}

func TestConcreteReadGuard_ReleaseTwice(t *testing.T) {
	e := alphaEntry("alpha")

	g, ok := ReadConcrete[Alpha](e)
	require.True(t, ok)
	g.Release()
	assert.NotPanics(t, func() { g.Release() })

	w := e.Write()
	w.Release()
}

func TestConcreteWriteGuard_ReleaseTwice(t *testing.T) {
	e := alphaEntry("alpha")

	g, ok := WriteConcrete[Alpha](e)
	require.True(t, ok)
	g.Release()
	assert.NotPanics(t, func() { g.Release() })

	w := e.Write()
	w.Release()
}

func TestConcrete_MaterializesBeforeDowncast(t *testing.T) {
	built := false
	e := NewEntry[Plugin, uint64](0, "alpha",
		func() reflect.Type { return reflect.TypeFor[Alpha]() },
		func() Plugin { built = true; return &Alpha{} })

	// Even a miss constructs the instance first; the downcast needs the
	// dynamic type to check against.
	_, ok := ReadConcrete[Beta](e)
	assert.False(t, ok)
	assert.True(t, built)
}
