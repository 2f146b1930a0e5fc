package inmemory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/sitegraph/importmap"
	"github.com/vk/sitegraph/nodeid"
	"github.com/vk/sitegraph/resultstore"
)

func TestCoarse_SetGet(t *testing.T) {
	s := New()
	_, ok := s.GetCoarse(nodeid.ID(1))
	assert.False(t, ok)

	s.SetCoarse(nodeid.ID(1), resultstore.CoarseResult{Value: "x"})
	got, ok := s.GetCoarse(nodeid.ID(1))
	require.True(t, ok)
	assert.Equal(t, "x", got.Value)
}

func TestFineKey_SetGetDelete(t *testing.T) {
	s := New()
	id := nodeid.ID(2)

	s.SetFineKey(id, nodeid.Key("a"), resultstore.FineEntry{Value: 1})
	entry, ok := s.GetFineKey(id, nodeid.Key("a"))
	require.True(t, ok)
	assert.Equal(t, 1, entry.Value)

	s.DeleteFineKey(id, nodeid.Key("a"))
	_, ok = s.GetFineKey(id, nodeid.Key("a"))
	assert.False(t, ok)
}

func TestFineKeys_PreservesInsertionOrderAndOverwriteDoesNotReorder(t *testing.T) {
	s := New()
	id := nodeid.ID(3)

	s.SetFineKey(id, nodeid.Key("b"), resultstore.FineEntry{Value: 1})
	s.SetFineKey(id, nodeid.Key("a"), resultstore.FineEntry{Value: 2})
	s.SetFineKey(id, nodeid.Key("c"), resultstore.FineEntry{Value: 3})

	assert.Equal(t, []nodeid.Key{"b", "a", "c"}, s.FineKeys(id))

	s.SetFineKey(id, nodeid.Key("a"), resultstore.FineEntry{Value: 99})
	assert.Equal(t, []nodeid.Key{"b", "a", "c"}, s.FineKeys(id), "overwriting an existing key must not move its position")
}

func TestFineKeys_DeleteRemovesFromOrder(t *testing.T) {
	s := New()
	id := nodeid.ID(4)
	s.SetFineKey(id, nodeid.Key("a"), resultstore.FineEntry{Value: 1})
	s.SetFineKey(id, nodeid.Key("b"), resultstore.FineEntry{Value: 2})

	s.DeleteFineKey(id, nodeid.Key("a"))
	assert.Equal(t, []nodeid.Key{"b"}, s.FineKeys(id))
}

func TestFineImports_SetGet(t *testing.T) {
	s := New()
	id := nodeid.ID(5)
	_, ok := s.GetFineImports(id)
	assert.False(t, ok)

	m := importmap.New()
	m.Register("react", "/hash/a.js")
	s.SetFineImports(id, m)

	got, ok := s.GetFineImports(id)
	require.True(t, ok)
	url, _ := got.Get("react")
	assert.Equal(t, "/hash/a.js", url)
}

func TestClear_RemovesEverything(t *testing.T) {
	s := New()
	s.SetCoarse(nodeid.ID(1), resultstore.CoarseResult{Value: "x"})
	s.SetFineKey(nodeid.ID(2), nodeid.Key("a"), resultstore.FineEntry{Value: 1})
	s.SetFineImports(nodeid.ID(2), importmap.New())

	s.Clear()

	_, ok := s.GetCoarse(nodeid.ID(1))
	assert.False(t, ok)
	assert.Empty(t, s.FineKeys(nodeid.ID(2)))
	_, ok = s.GetFineImports(nodeid.ID(2))
	assert.False(t, ok)
}
