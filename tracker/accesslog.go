package tracker

import (
	"sync"

	"github.com/vk/sitegraph/nodeid"
)

// AccessLog records which keys of a Many upstream a single node
// invocation actually read through its Tracker, plus whether it ever
// ranged over the whole collection. Grounded on original_source's
// engine/tracking.rs TrackerState (accessed/iterated/globs fields).
type AccessLog struct {
	mu      sync.Mutex
	whole   bool
	touched map[nodeid.Key]struct{}
}

// NewAccessLog returns an empty log, ready to be handed to a Tracker.
func NewAccessLog() *AccessLog {
	return &AccessLog{touched: make(map[nodeid.Key]struct{})}
}

// MarkKey records a single-key read.
func (a *AccessLog) MarkKey(k nodeid.Key) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.touched[k] = struct{}{}
}

// MarkWhole records a whole-collection read.
func (a *AccessLog) MarkWhole() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.whole = true
}

// snapshot copies the current state for long-lived storage in an
// Engine, decoupled from further mutation of the live log.
func (a *AccessLog) snapshot() accessSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	keys := make(map[nodeid.Key]struct{}, len(a.touched))
	for k := range a.touched {
		keys[k] = struct{}{}
	}
	return accessSnapshot{whole: a.whole, keys: keys}
}

type accessSnapshot struct {
	whole bool
	keys  map[nodeid.Key]struct{}
}
