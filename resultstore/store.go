// Package resultstore defines the interface for the mutable, per-
// generation result cache described in spec §3 ("Result cache").
//
// # Why resultstore exists
//
// topology.Store holds the immutable shape of the graph; resultstore
// holds what each node actually produced this generation. This mirrors
// the teacher's separation of topologystore from nodestore: execution
// writes (SetCoarse, SetFineKey, ...) happen continuously and
// concurrently while the graph is walked, and keeping them off the
// topology's read path means node lookups during scheduling never
// contend with result writes.
//
// A Fine node's cache is keyed per entry, not as one opaque blob, because
// the incremental tracker (package tracker) must be able to invalidate a
// single key's entry — deleting exactly one row of a Many-typed result —
// without disturbing the other N-1 keys (spec §4.H, §9 "per-key
// fingerprint storage").
//
// # Thread-safety
//
// Implementations must be safe for concurrent calls across different
// nodes and, for Fine nodes, across different keys of the same node. See
// resultstore/inmemory for the reference implementation.
package resultstore

import (
	"github.com/vk/sitegraph/cas"
	"github.com/vk/sitegraph/importmap"
	"github.com/vk/sitegraph/nodeid"
)

// CoarseResult is the cached output of a Coarse node: a single value plus
// the node's effective import map (its inherited map merged with the
// entries its body registered, the latter winning on collisions).
type CoarseResult struct {
	Value   any
	Imports *importmap.Map
}

// FineEntry is one row of a Fine node's output collection: the value
// produced for a key, and the fingerprint of the source bytes (or
// structural hash of inputs) that produced it at the time of evaluation.
// Storing the fingerprint per-entry, not just the upstream's current
// fingerprint, is what lets a deleted-and-recreated file with identical
// content correctly preserve its downstream output (spec §9).
type FineEntry struct {
	Value       any
	Fingerprint cas.Hash
}

// Store is the interface for the mutable per-generation result cache.
type Store interface {
	// SetCoarse records the result of a Coarse node.
	SetCoarse(id nodeid.ID, result CoarseResult)
	// GetCoarse retrieves the result of a Coarse node, if present.
	GetCoarse(id nodeid.ID) (CoarseResult, bool)

	// SetFineKey records, or overwrites, one entry of a Fine node's
	// result collection. Insertion order is preserved for keys seen for
	// the first time; overwriting an existing key does not change its
	// position (spec §3 "iteration order is insertion order").
	SetFineKey(id nodeid.ID, key nodeid.Key, entry FineEntry)
	// GetFineKey retrieves a single entry of a Fine node's result.
	GetFineKey(id nodeid.ID, key nodeid.Key) (FineEntry, bool)
	// DeleteFineKey removes one entry, used when a source path backing
	// that key has been deleted (spec §4.H "Deletion semantics").
	DeleteFineKey(id nodeid.ID, key nodeid.Key)
	// FineKeys returns every key currently recorded for a Fine node, in
	// insertion order.
	FineKeys(id nodeid.ID) []nodeid.Key

	// SetFineImports records the merged import map for a Fine node (the
	// union of per-key local maps plus the node's own contributions).
	SetFineImports(id nodeid.ID, imports *importmap.Map)
	// GetFineImports retrieves the merged import map for a Fine node.
	GetFineImports(id nodeid.ID) (*importmap.Map, bool)

	// Clear drops every cached result, so that the next run evaluates
	// every node from scratch. Website.Build does not call it; the cache
	// is kept across generations.
	Clear()
}
