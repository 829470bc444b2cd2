package manifest

import (
	"fmt"
)

// Expectation describes one entry a manifest expects in a store.
type Expectation struct {
	// Name is the entry's display name. Required.
	Name string `yaml:"name" json:"name"`

	// Ordering is the expected ordering key, formatted as a string.
	// Empty skips the ordering check.
	Ordering string `yaml:"ordering,omitempty" json:"ordering,omitempty"`

	// Optional marks an entry that may be absent from the store.
	Optional bool `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Manifest declares the expected contents of a collection snapshot.
type Manifest struct {
	// Collection is the name of the collection the manifest applies to.
	Collection string `yaml:"collection" json:"collection"`

	// AllowExtra permits store entries the manifest does not list.
	AllowExtra bool `yaml:"allow_extra,omitempty" json:"allow_extra,omitempty"`

	// Entries lists the expected entries in their expected relative order.
	Entries []Expectation `yaml:"entries" json:"entries"`
}

// Validate checks the manifest for structural problems: a missing
// collection name, unnamed entries, or duplicate entry names.
func (m *Manifest) Validate() error {
	if m.Collection == "" {
		return fmt.Errorf("collection name is required")
	}
	seen := make(map[string]struct{}, len(m.Entries))
	for i, e := range m.Entries {
		if e.Name == "" {
			return fmt.Errorf("entry %d: name is required", i)
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("duplicate entry name: %s", e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}
