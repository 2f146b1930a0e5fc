// Engine (this file) implements the incremental invalidation algorithm,
// spec §4.H / component H. It has two jobs across a generation boundary:
//
//  1. Diff a loader node's fresh key→fingerprint scan against the prior
//     one into the Fine keys that were added, modified, or removed
//     (ScanLoader).
//  2. Turn a set of changed/removed keys on a Many upstream into the set
//     of downstream consumers that must re-run, using each consumer's
//     recorded AccessLog from the prior generation to avoid over-running
//     consumers that only ever touched a few keys (Dirty).
//
// One-edges are not modeled here: the executor re-evaluates every Coarse
// node on every generation, so a One-edge consumer re-runs whenever it
// is scheduled, without going through a Tracker or an AccessLog at all
// and without any fingerprint comparison.
package tracker

import (
	"sync"

	"github.com/vk/sitegraph/cas"
	"github.com/vk/sitegraph/nodeid"
)

// Engine is the build-wide incremental state, persisted across
// generations (one build invocation to the next in watch mode).
type Engine struct {
	mu          sync.Mutex
	loaderFiles map[nodeid.ID]map[nodeid.Key]cas.Hash
	edgeAccess  map[edgeKey]accessSnapshot
}

type edgeKey struct {
	Consumer nodeid.ID
	Upstream nodeid.ID
}

// NewEngine returns an Engine with no prior generation recorded; the
// first ScanLoader/Dirty pass after construction always reports every
// observed key as changed, since there is nothing to diff against.
func NewEngine() *Engine {
	return &Engine{
		loaderFiles: make(map[nodeid.ID]map[nodeid.Key]cas.Hash),
		edgeAccess:  make(map[edgeKey]accessSnapshot),
	}
}

// ScanLoader compares a loader's freshly scanned key→fingerprint set
// against what was recorded for it in the prior generation, returns the
// changed (added or modified) and removed keys, and replaces the stored
// snapshot with the new scan.
func (e *Engine) ScanLoader(loader nodeid.ID, scan map[nodeid.Key]cas.Hash) (changed, removed []nodeid.Key) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prior := e.loaderFiles[loader]
	for key, hash := range scan {
		old, existed := prior[key]
		if !existed || old != hash {
			changed = append(changed, key)
		}
	}
	for key := range prior {
		if _, stillPresent := scan[key]; !stillPresent {
			removed = append(removed, key)
		}
	}

	snapshot := make(map[nodeid.Key]cas.Hash, len(scan))
	for k, v := range scan {
		snapshot[k] = v
	}
	e.loaderFiles[loader] = snapshot

	return changed, removed
}

// RecordAccess stores consumer's access pattern over upstream for this
// generation, to be consulted by Dirty on the next one. Called by the
// executor once a merge/run body that consumed a Tracker has returned.
func (e *Engine) RecordAccess(consumer, upstream nodeid.ID, log *AccessLog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.edgeAccess[edgeKey{Consumer: consumer, Upstream: upstream}] = log.snapshot()
}

// Dirty reports which of upstream's consumers must re-run given that
// changed and removed happened on upstream's key set, and, for
// consumers that did not read the whole collection, exactly which keys
// they touched that were affected (useful to an each-mapped consumer
// deciding whether its own per-key cache entry survives).
func (e *Engine) Dirty(upstream nodeid.ID, changed, removed []nodeid.Key, consumers []nodeid.ID) map[nodeid.ID]Dirty {
	e.mu.Lock()
	defer e.mu.Unlock()

	affected := make(map[nodeid.Key]struct{}, len(changed)+len(removed))
	for _, k := range changed {
		affected[k] = struct{}{}
	}
	for _, k := range removed {
		affected[k] = struct{}{}
	}

	result := make(map[nodeid.ID]Dirty, len(consumers))
	for _, consumer := range consumers {
		snap, ok := e.edgeAccess[edgeKey{Consumer: consumer, Upstream: upstream}]
		if !ok {
			// No recorded prior access: this edge is new or never ran to
			// completion. Treat conservatively as fully dirty.
			result[consumer] = Dirty{Full: true}
			continue
		}
		if snap.whole {
			if len(affected) > 0 {
				result[consumer] = Dirty{Full: true}
			}
			continue
		}
		var touched []nodeid.Key
		for k := range snap.keys {
			if _, hit := affected[k]; hit {
				touched = append(touched, k)
			}
		}
		if len(touched) > 0 {
			result[consumer] = Dirty{Keys: touched}
		}
	}
	return result
}

// Dirty describes how a single consumer is affected by an upstream
// change: either it must fully re-run (Full), or only the listed Keys
// of its own per-key state are implicated and it is otherwise unaffected.
type Dirty struct {
	Full bool
	Keys []nodeid.Key
}
