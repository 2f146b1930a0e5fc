// Package tracker provides two related pieces of the incremental model
// (spec §4.H, §9):
//
//   - Tracker[T]: the read-only, per-key view a Fine upstream exposes to
//     a non-per-item consumer (a merge/run body declared with
//     depends_on/using over a Many[T] — spec §4.D: "if u is Many[T], v's
//     body expects a tracker over T").
//   - Engine: the incremental invalidation bookkeeping (component H)
//     that, across a generation boundary, diffs each loader's fresh
//     key→fingerprint scan against the previous one and reports which
//     direct consumers of the changed Many upstream are affected.
package tracker

import (
	"iter"

	"github.com/vk/sitegraph/nodeid"
)

// Tracker is the ordered, keyed view over a Many[T] upstream's current
// values, handed to consumers that read the whole collection at once
// (as opposed to Each, which maps one key at a time).
//
// Every read through a Tracker is recorded into an AccessLog (grounded
// on original_source's engine/tracking.rs TrackerState: accessed vs.
// iterated/globs). The recorded access pattern lets Engine.Dirty
// distinguish a consumer that only ever Get's a handful of known keys
// (reported only if one of those keys changed) from one that ranges over
// the whole collection (reported fully dirty on any addition, removal,
// or modification). The executor does not act on that report: it
// re-runs every Coarse consumer on every generation.
type Tracker[T any] struct {
	order  []nodeid.Key
	values map[nodeid.Key]T
	log    *AccessLog
}

// New constructs a Tracker from an ordered key list, a value lookup, and
// the AccessLog to record reads into. Used by the executor when
// resolving a Many upstream for a merge/run consumer.
func New[T any](order []nodeid.Key, values map[nodeid.Key]T, log *AccessLog) Tracker[T] {
	if log == nil {
		log = NewAccessLog()
	}
	return Tracker[T]{order: order, values: values, log: log}
}

// Keys returns every key in insertion order. Calling Keys marks the
// whole collection as accessed: adding or removing a key changes the
// set Keys would return, so the consumer is dirtied by membership
// changes even if it never reads a value.
func (t Tracker[T]) Keys() []nodeid.Key {
	t.log.MarkWhole()
	out := make([]nodeid.Key, len(t.order))
	copy(out, t.order)
	return out
}

// Get returns the value for key, if present, and records only that key
// as accessed, so Engine.Dirty does not report the consumer for a change
// to an unrelated key. The executor still re-runs a Coarse consumer on
// every generation.
func (t Tracker[T]) Get(key nodeid.Key) (T, bool) {
	t.log.MarkKey(key)
	v, ok := t.values[key]
	return v, ok
}

// AccessLog returns the log this Tracker records reads into. Exposed so
// a caller that narrows a type-erased Tracker[any] into a statically
// typed Tracker[A] (see blueprint.Using1) can construct the replacement
// around the same underlying log, instead of silently starting a fresh,
// disconnected one that the executor would never see.
func (t Tracker[T]) AccessLog() *AccessLog { return t.log }

// Len reports the number of entries without recording an access; a
// consumer that only checks Len() but never reads a key or iterates is
// not tracked as depending on any particular membership (mirrors the
// original's decision to track access only on .get/.iter/.glob, never
// on metadata queries).
func (t Tracker[T]) Len() int { return len(t.order) }

// All returns an iterator over (key, value) pairs in insertion order,
// usable with Go's range-over-func: `for k, v := range tracker.All() { ... }`.
// Consuming it marks the whole collection as accessed.
func (t Tracker[T]) All() iter.Seq2[nodeid.Key, T] {
	t.log.MarkWhole()
	return func(yield func(nodeid.Key, T) bool) {
		for _, k := range t.order {
			if !yield(k, t.values[k]) {
				return
			}
		}
	}
}
