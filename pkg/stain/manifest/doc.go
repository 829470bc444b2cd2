/*
Package manifest verifies collection snapshots against declared expectations.

# Overview

A Manifest lists the entries an operator expects a collection to contain,
optionally with their ordering keys and relative order. Verifying a store
against a manifest catches registration drift: a plugin package that was
dropped from the build, an import that stopped happening, or an ordering
key that changed.

# Manifest Format

Manifests load from YAML or JSON:

	collection: config.sources
	allow_extra: false
	entries:
	  - name: Defaults
	    ordering: "0"
	  - name: JSONFile
	    ordering: "10"
	  - name: EnvSource
	    optional: true

Ordering values are strings and compare against the formatted ordering key
of the store entry. An empty ordering skips the check. Optional entries
may be absent without failing verification.

# Verification

Verify checks a store against a manifest and reports every divergence at
once rather than stopping at the first:

	m, err := manifest.Load("plugins.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	if err := manifest.Verify(m, store); err != nil {
	    log.Fatal(err) // lists all problems
	}

Problems include a collection name mismatch, missing required entries,
ordering mismatches, entries out of the declared relative order, and
unexpected entries when allow_extra is false.

# Generating

FromStore builds a manifest describing an existing snapshot, useful for
bootstrapping a manifest file from a known-good build:

	m := manifest.FromStore(store)
	data, _ := yaml.Marshal(m)
	os.WriteFile("plugins.yaml", data, 0o644)
*/
package manifest
