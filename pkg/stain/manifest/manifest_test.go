package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestManifest_Validate verifies structural validation of manifests.
func TestManifest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		errMsg   string
	}{
		{
			"valid",
			Manifest{
				Collection: "sources",
				Entries: []Expectation{
					{Name: "defaults", Ordering: "0"},
					{Name: "environment", Ordering: "40", Optional: true},
				},
			},
			"",
		},
		{
			"valid with no entries",
			Manifest{Collection: "sources"},
			"",
		},
		{
			"missing collection name",
			Manifest{Entries: []Expectation{{Name: "defaults"}}},
			"collection name is required",
		},
		{
			"unnamed entry",
			Manifest{
				Collection: "sources",
				Entries:    []Expectation{{Name: "defaults"}, {Ordering: "10"}},
			},
			"entry 1: name is required",
		},
		{
			"duplicate entry name",
			Manifest{
				Collection: "sources",
				Entries:    []Expectation{{Name: "defaults"}, {Name: "defaults"}},
			},
			"duplicate entry name: defaults",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.manifest.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
