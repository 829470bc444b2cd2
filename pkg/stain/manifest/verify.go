package manifest

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/stainkit/stain/pkg/stain"
)

// VerifyError reports every way a store diverged from its manifest.
type VerifyError struct {
	Collection string
	Problems   []string
}

// Error returns all problems, one per line.
func (e *VerifyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "manifest verification failed for %q:", e.Collection)
	for _, p := range e.Problems {
		b.WriteString("\n  - ")
		b.WriteString(p)
	}
	return b.String()
}

// Verify checks a store against a manifest. It accumulates all problems
// and returns them in a single *VerifyError, or nil when the store
// matches.
//
// Checks performed:
//   - the store belongs to the manifest's collection
//   - every non-optional expected entry is present
//   - present entries have the expected ordering key, when declared
//   - present entries keep the manifest's relative order
//   - no unexpected entries exist, unless AllowExtra is set
//
// When the store holds several entries with the same display name, the
// first one in canonical order is the one checked.
func Verify[T any, O cmp.Ordered](m *Manifest, s *stain.Store[T, O]) error {
	var problems []string

	if m.Collection != s.Collection() {
		problems = append(problems, fmt.Sprintf(
			"collection mismatch: manifest %q, store %q", m.Collection, s.Collection()))
	}

	type slot struct {
		pos      int
		ordering string
	}
	index := make(map[string]slot, s.Len())
	pos := 0
	s.Range(func(e *stain.Entry[T, O]) bool {
		if _, ok := index[e.Name()]; !ok {
			index[e.Name()] = slot{pos: pos, ordering: fmt.Sprint(e.Ordering())}
		}
		pos++
		return true
	})

	expected := make(map[string]struct{}, len(m.Entries))
	lastPos := -1
	lastName := ""
	for _, exp := range m.Entries {
		expected[exp.Name] = struct{}{}

		got, ok := index[exp.Name]
		if !ok {
			if !exp.Optional {
				problems = append(problems, fmt.Sprintf("missing entry %q", exp.Name))
			}
			continue
		}
		if exp.Ordering != "" && exp.Ordering != got.ordering {
			problems = append(problems, fmt.Sprintf(
				"entry %q has ordering %s, manifest expects %s", exp.Name, got.ordering, exp.Ordering))
		}
		if got.pos < lastPos {
			problems = append(problems, fmt.Sprintf(
				"entry %q appears before %q, manifest lists it after", exp.Name, lastName))
		}
		lastPos = got.pos
		lastName = exp.Name
	}

	if !m.AllowExtra {
		s.Range(func(e *stain.Entry[T, O]) bool {
			if _, ok := expected[e.Name()]; !ok {
				problems = append(problems, fmt.Sprintf("unexpected entry %q", e.Name()))
			}
			return true
		})
	}

	if len(problems) > 0 {
		return &VerifyError{Collection: s.Collection(), Problems: problems}
	}
	return nil
}

// FromStore builds a manifest describing the store's current contents.
// The result lists every entry with its formatted ordering key, in
// canonical order, and allows no extras.
func FromStore[T any, O cmp.Ordered](s *stain.Store[T, O]) *Manifest {
	m := &Manifest{Collection: s.Collection()}
	s.Range(func(e *stain.Entry[T, O]) bool {
		m.Entries = append(m.Entries, Expectation{
			Name:     e.Name(),
			Ordering: fmt.Sprint(e.Ordering()),
		})
		return true
	})
	return m
}
