/*
Package stain provides a process-wide plugin registry built around lazily
constructed, lock-guarded instances.

# Overview

stain lets independent packages contribute implementations of a shared
interface to a named Collection, typically from init functions. At startup,
once registration is complete, the program calls Collect to obtain an
immutable Store: entries deduplicated by concrete type, grouped into buckets
by an ordering key, and iterable in a deterministic ascending order.

Each entry owns a single shared instance of its concrete type. The instance
is constructed lazily on first access, exactly once no matter how many
goroutines race for it, and is guarded by a read/write lock for the rest of
the process lifetime.

The library is built around:
  - Type-safe generics for the item interface and the ordering key
  - Registration-time validation (fail fast during init)
  - Deterministic iteration independent of map ordering
  - OpenTelemetry integration for observability

# Basic Usage

Declare a collection for an interface, register implementations, then
collect and iterate:

	type Greeter interface {
	    Greet() string
	}

	var Greeters = stain.NewCollection[Greeter, uint64]("greeters")

	type English struct{}
	func (*English) Greet() string { return "hello" }

	type French struct{}
	func (*French) Greet() string { return "bonjour" }

	func init() {
	    stain.Register[English](Greeters, 1)
	    stain.Register[French](Greeters, 2)
	}

	func main() {
	    store := Greeters.Collect()
	    store.Range(func(e *stain.Entry[Greeter, uint64]) bool {
	        g := e.Read()
	        defer g.Release()
	        fmt.Println(g.Name(), g.Value().Greet())
	        return true
	    })
	}

Entries iterate in ascending ordering; entries that share an ordering value
keep their registration order.

# Ordering

The ordering key is any ordered type (integers, strings, or types defined
on them). Use a domain enum to make buckets self-describing:

	type Phase int

	const (
	    PhaseEarly Phase = iota
	    PhaseDefault
	    PhaseLate
	)

	var Hooks = stain.NewCollection[Hook, Phase]("hooks")

	early, ok := store.Ordering(PhaseEarly)

# Concrete Access

Look up an entry by its concrete type and work with the real type instead
of the interface:

	ce, ok := stain.Concrete[French](store)
	if ok {
	    g := ce.Read()
	    defer g.Release()
	    fmt.Println(g.Value().Greet()) // g.Value() is *French
	}

Lookups that miss, and downcasts against the wrong concrete type, report an
empty result. They never panic.

# Lazy Construction

Instances are built on first access. By default an entry constructs its
instance as new(C); use RegisterFunc when the zero value is not ready:

	stain.RegisterFunc[Cache](Caches, 10, func() *Cache {
	    return &Cache{entries: make(map[string][]byte)}
	})

Construction runs at most once. If a constructor panics, the panic reaches
the first accessor and every later access fails the same way; a half-built
instance is never visible.

# Sealing

Registration is expected to finish before the first Collect. Call Seal once
startup registration is complete to enforce that contract:

	Greeters.Seal()
	// later registrations now fail with ErrSealed

# Observability

Enable structured logging, metrics, and tracing per collection:

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	var Plugins = stain.NewCollection[Plugin, uint64]("plugins",
	    stain.WithLogger(logger),
	    stain.WithMetrics(true),
	    stain.WithTracing(true))

Logs carry structured fields: collection, entry, ordering, store_id.
OpenTelemetry metrics: stain.registrations, stain.collects, stain.collect.latency_ms, etc.
OpenTelemetry tracing: a stain.collect span per snapshot.

# Thread Safety

  - Registration is safe from concurrent init functions
  - Collect is safe at any time and never blocks on instance locks
  - Store is immutable and safe for unlimited concurrent use
  - Guards hold the instance lock until released; a guard must stay on the
    goroutine that acquired it

# Subpackages

  - manifest: declarative expected-entry files (YAML/JSON) verified against a Store
  - observability: logging, metrics, and tracing helpers
*/
package stain
