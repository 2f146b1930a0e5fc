// Package inmemory provides an ephemeral, thread-safe, in-memory
// implementation of resultstore.Store.
//
// # Concurrency model
//
// Coarse results and Fine import maps use sync.Map — the key space (node
// IDs) is fixed once the graph is finalized and values change once per
// generation, the textbook sync.Map use case. Each Fine node's keyed
// entries and ordered key list are guarded by a mutex of that node's
// own: writes to different keys of the same node are serialized, but
// they never contend with any other node's keys.
package inmemory

import (
	"sync"

	"github.com/vk/sitegraph/importmap"
	"github.com/vk/sitegraph/nodeid"
	"github.com/vk/sitegraph/resultstore"
)

type fineNode struct {
	mu      sync.Mutex
	order   []nodeid.Key
	entries map[nodeid.Key]resultstore.FineEntry
}

// Store is an in-memory implementation of resultstore.Store.
type Store struct {
	coarse  sync.Map // nodeid.ID -> resultstore.CoarseResult
	fine    sync.Map // nodeid.ID -> *fineNode
	fineImp sync.Map // nodeid.ID -> *importmap.Map
}

// New returns an empty in-memory result store.
func New() resultstore.Store {
	return &Store{}
}

func (s *Store) SetCoarse(id nodeid.ID, result resultstore.CoarseResult) {
	s.coarse.Store(id, result)
}

func (s *Store) GetCoarse(id nodeid.ID) (resultstore.CoarseResult, bool) {
	v, ok := s.coarse.Load(id)
	if !ok {
		return resultstore.CoarseResult{}, false
	}
	return v.(resultstore.CoarseResult), true
}

func (s *Store) fineNodeFor(id nodeid.ID) *fineNode {
	v, _ := s.fine.LoadOrStore(id, &fineNode{entries: make(map[nodeid.Key]resultstore.FineEntry)})
	return v.(*fineNode)
}

func (s *Store) SetFineKey(id nodeid.ID, key nodeid.Key, entry resultstore.FineEntry) {
	fn := s.fineNodeFor(id)
	fn.mu.Lock()
	defer fn.mu.Unlock()
	if _, exists := fn.entries[key]; !exists {
		fn.order = append(fn.order, key)
	}
	fn.entries[key] = entry
}

func (s *Store) GetFineKey(id nodeid.ID, key nodeid.Key) (resultstore.FineEntry, bool) {
	fn := s.fineNodeFor(id)
	fn.mu.Lock()
	defer fn.mu.Unlock()
	entry, ok := fn.entries[key]
	return entry, ok
}

func (s *Store) DeleteFineKey(id nodeid.ID, key nodeid.Key) {
	fn := s.fineNodeFor(id)
	fn.mu.Lock()
	defer fn.mu.Unlock()
	if _, exists := fn.entries[key]; !exists {
		return
	}
	delete(fn.entries, key)
	for i, k := range fn.order {
		if k == key {
			fn.order = append(fn.order[:i], fn.order[i+1:]...)
			break
		}
	}
}

func (s *Store) FineKeys(id nodeid.ID) []nodeid.Key {
	fn := s.fineNodeFor(id)
	fn.mu.Lock()
	defer fn.mu.Unlock()
	out := make([]nodeid.Key, len(fn.order))
	copy(out, fn.order)
	return out
}

func (s *Store) SetFineImports(id nodeid.ID, imports *importmap.Map) {
	s.fineImp.Store(id, imports)
}

func (s *Store) GetFineImports(id nodeid.ID) (*importmap.Map, bool) {
	v, ok := s.fineImp.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*importmap.Map), true
}

func (s *Store) Clear() {
	s.coarse.Range(func(k, _ any) bool { s.coarse.Delete(k); return true })
	s.fine.Range(func(k, _ any) bool { s.fine.Delete(k); return true })
	s.fineImp.Range(func(k, _ any) bool { s.fineImp.Delete(k); return true })
}
