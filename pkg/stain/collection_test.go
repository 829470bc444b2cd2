package stain

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollection(t *testing.T) {
	name := testName(t)
	c := NewCollection[Plugin, uint64](name)

	assert.Equal(t, name, c.Name())
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Sealed())
}

func TestNewCollection_NotInterface_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "stain: collection item type stain.Alpha is not an interface", func() {
		NewCollection[Alpha, uint64](testName(t))
	})
}

func TestNewCollection_EmptyName_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "stain: collection name cannot be empty", func() {
		NewCollection[Plugin, uint64]("")
	})
}

func TestNewCollection_DuplicateName_Panics(t *testing.T) {
	name := testName(t)
	NewCollection[Plugin, uint64](name)

	assert.PanicsWithValue(t, "stain: duplicate collection name: "+name, func() {
		NewCollection[Plugin, uint64](name)
	})
}

func TestRegister(t *testing.T) {
	c := newTestCollection(t)

	Register[Alpha](c, 10)
	Register[Beta](c, 20)

	assert.Equal(t, 2, c.Len())

	s := c.Collect()
	require.Equal(t, 2, s.Len())
	entries := s.Entries()
	assert.Equal(t, "Alpha", entries[0].Name())
	assert.Equal(t, uint64(10), entries[0].Ordering())
	assert.Equal(t, "Beta", entries[1].Name())
	assert.Equal(t, uint64(20), entries[1].Ordering())
}

func TestRegister_WithName(t *testing.T) {
	c := newTestCollection(t)

	Register[Alpha](c, 0, WithName("first-stage"))

	s := c.Collect()
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "first-stage", s.Entries()[0].Name())
}

func TestRegister_WithName_EmptyIgnored(t *testing.T) {
	c := newTestCollection(t)

	Register[Alpha](c, 0, WithName(""))

	s := c.Collect()
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "Alpha", s.Entries()[0].Name())
}

func TestRegister_NotImplementing_Panics(t *testing.T) {
	c := newTestCollection(t)

	assert.PanicsWithValue(t, "stain: *stain.NotAPlugin does not implement stain.Plugin", func() {
		Register[NotAPlugin](c, 0)
	})
}

func TestRegister_NilCollection_Panics(t *testing.T) {
	var c *Collection[Plugin, uint64]

	assert.PanicsWithValue(t, "stain: collection cannot be nil", func() {
		Register[Alpha](c, 0)
	})
}

func TestRegister_Sealed_Panics(t *testing.T) {
	name := testName(t)
	c := NewCollection[Plugin, uint64](name)
	c.Seal()

	assert.PanicsWithValue(t,
		fmt.Sprintf("stain: register Alpha in %q: collection is sealed: %s", name, name),
		func() { Register[Alpha](c, 0) })
}

func TestRegisterFunc(t *testing.T) {
	c := newTestCollection(t)

	built := 0
	RegisterFunc(c, 5, func() *Fuel {
		built++
		return &Fuel{Level: 42}
	})

	assert.Equal(t, 0, built, "constructor must not run at registration")

	s := c.Collect()
	ce, ok := Concrete[Fuel](s)
	require.True(t, ok)

	g := ce.Read()
	defer g.Release()
	assert.Equal(t, 42, g.Value().Level)
	assert.Equal(t, 1, built)
}

func TestRegisterFunc_NilConstructor_Panics(t *testing.T) {
	c := newTestCollection(t)

	assert.PanicsWithValue(t, "stain: constructor cannot be nil", func() {
		RegisterFunc[Fuel](c, 0, nil)
	})
}

func TestAdd(t *testing.T) {
	c := newTestCollection(t)

	e := alphaEntry("manual")
	require.NoError(t, c.Add(e))
	assert.Equal(t, 1, c.Len())
}

func TestAdd_NilEntry(t *testing.T) {
	c := newTestCollection(t)

	err := c.Add(nil)
	assert.ErrorIs(t, err, ErrNilEntry)
}

func TestAdd_Sealed(t *testing.T) {
	c := newTestCollection(t)
	c.Seal()

	err := c.Add(alphaEntry("late"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSealed)
	assert.Contains(t, err.Error(), c.Name())
}

func TestAdd_AssignsSequence(t *testing.T) {
	c := newTestCollection(t)

	e1 := alphaEntry("one")
	e2 := alphaEntry("two")
	require.NoError(t, c.Add(e1))
	require.NoError(t, c.Add(e2))

	assert.Equal(t, uint64(1), e1.seq)
	assert.Equal(t, uint64(2), e2.seq)
}

func TestAdd_InjectsLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := newTestCollection(t, WithLogger(logger))

	e := alphaEntry("wired")
	require.NoError(t, c.Add(e))

	assert.Same(t, logger, e.cell.logger)
}

func TestSeal(t *testing.T) {
	c := newTestCollection(t)
	Register[Alpha](c, 0)

	assert.False(t, c.Sealed())
	c.Seal()
	assert.True(t, c.Sealed())

	// Sealing twice is a no-op.
	assert.NotPanics(t, func() { c.Seal() })
	assert.True(t, c.Sealed())
}

func TestSeal_CollectStillWorks(t *testing.T) {
	c := newTestCollection(t)
	Register[Alpha](c, 0)
	c.Seal()

	s := c.Collect()
	assert.Equal(t, 1, s.Len())
}

func TestConcurrentRegister(t *testing.T) {
	c := newTestCollection(t)
	var wg sync.WaitGroup
	n := 100

	for i := range n {
		wg.Add(1)
		go func(ord uint64) {
			defer wg.Done()
			Register[Alpha](c, ord)
		}(uint64(i))
	}
	wg.Wait()

	assert.Equal(t, n, c.Len())

	// All registrations share one identity; the snapshot keeps one.
	s := c.Collect()
	assert.Equal(t, 1, s.Len())
}

func TestConcurrentAdd_UniqueSequences(t *testing.T) {
	c := newTestCollection(t)
	n := 100
	entries := make([]*Entry[Plugin, uint64], n)
	for i := range n {
		entries[i] = alphaEntry(fmt.Sprintf("e%d", i))
	}

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, c.Add(entries[i]))
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool, n)
	for _, e := range entries {
		assert.False(t, seen[e.seq], "duplicate sequence %d", e.seq)
		seen[e.seq] = true
	}
}
