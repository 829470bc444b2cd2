package stain

import (
	"fmt"
	"sort"
	"sync"
)

// Collection names are claimed process-wide. Two collections sharing a
// name would be indistinguishable in logs, metrics, and manifests, so a
// collision fails fast at creation, during init.
var (
	namesMu sync.Mutex
	names   = make(map[string]struct{})
)

// claimCollectionName reserves name for a new collection.
func claimCollectionName(name string) {
	if name == "" {
		panic("stain: collection name cannot be empty")
	}
	namesMu.Lock()
	defer namesMu.Unlock()
	if _, exists := names[name]; exists {
		panic(fmt.Sprintf("stain: duplicate collection name: %s", name))
	}
	names[name] = struct{}{}
}

// Collections returns the names of every collection created so far,
// sorted. Intended for diagnostics and startup listings.
func Collections() []string {
	namesMu.Lock()
	defer namesMu.Unlock()
	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
