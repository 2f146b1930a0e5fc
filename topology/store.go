// Package topology implements the flat, append-only node store that
// backs a Blueprint while it is being built (spec §4.C).
//
// # Why topology is separate from resultstore
//
// sitegraph follows the same split the teacher draws between
// topologystore (immutable DAG structure) and nodestore (mutable
// execution state): topology answers "what does the graph look like"
// while resultstore (package resultstore) answers "what did this node
// produce this generation". Frequent result writes during execution never
// contend with topology reads, and the topology — once a Blueprint calls
// Finish — never changes again for the lifetime of the resulting Website,
// so it needs no locking on the read path at all.
package topology

import (
	"fmt"
	"sync"

	"github.com/vk/sitegraph/graphnode"
	"github.com/vk/sitegraph/nodeid"
)

// Store is a flat, ordered container of Nodes indexed by nodeid.ID.
// Lookup is O(1). The store is append-only while a Blueprint is being
// constructed and read-only once Finalize has been called.
type Store struct {
	mu       sync.Mutex
	nodes    []*graphnode.Node
	finished bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Add registers a new node and returns its assigned, monotonically
// increasing ID. Add panics if called after Finalize — a Blueprint must
// never add nodes to a graph that has already been handed to an Executor,
// since the topology is assumed immutable from that point on.
func (s *Store) Add(n *graphnode.Node) nodeid.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		panic("topology: Add called on a finalized store")
	}
	id := nodeid.ID(len(s.nodes))
	n.SetID(id)
	s.nodes = append(s.nodes, n)
	return id
}

// Finalize marks the store read-only. Called once by Blueprint.Finish.
func (s *Store) Finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = true
}

// Get returns the node for id, or an error if id is out of range.
func (s *Store) Get(id nodeid.ID) (*graphnode.Node, error) {
	if int(id) < 0 || int(id) >= len(s.nodes) {
		return nil, fmt.Errorf("topology: unknown node %s", id)
	}
	return s.nodes[id], nil
}

// MustGet is like Get but panics on failure; used internally once the
// graph has passed analysis, at which point every referenced ID is known
// to be valid by construction.
func (s *Store) MustGet(id nodeid.ID) *graphnode.Node {
	n, err := s.Get(id)
	if err != nil {
		panic(err)
	}
	return n
}

// Len returns the number of nodes in the store.
func (s *Store) Len() int { return len(s.nodes) }

// All returns every node in registration order. The returned slice must
// not be mutated by callers.
func (s *Store) All() []*graphnode.Node { return s.nodes }
