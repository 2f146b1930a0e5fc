package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/sitegraph/graphnode"
	"github.com/vk/sitegraph/nodeid"
)

func TestAdd_AssignsMonotonicIDs(t *testing.T) {
	s := New()
	id0 := s.Add(graphnode.New("a", graphnode.Coarse))
	id1 := s.Add(graphnode.New("b", graphnode.Coarse))

	assert.Equal(t, nodeid.ID(0), id0)
	assert.Equal(t, nodeid.ID(1), id1)
	assert.Equal(t, 2, s.Len())
}

func TestGet_UnknownIDReturnsError(t *testing.T) {
	s := New()
	s.Add(graphnode.New("a", graphnode.Coarse))

	_, err := s.Get(nodeid.ID(5))
	assert.Error(t, err)
}

func TestGet_KnownIDReturnsSameNode(t *testing.T) {
	s := New()
	n := graphnode.New("a", graphnode.Coarse)
	id := s.Add(n)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Same(t, n, got)
}

func TestMustGet_PanicsOnUnknownID(t *testing.T) {
	s := New()
	assert.Panics(t, func() {
		s.MustGet(nodeid.ID(0))
	})
}

func TestAdd_PanicsAfterFinalize(t *testing.T) {
	s := New()
	s.Finalize()

	assert.Panics(t, func() {
		s.Add(graphnode.New("a", graphnode.Coarse))
	})
}

func TestAll_ReturnsRegistrationOrder(t *testing.T) {
	s := New()
	a := graphnode.New("a", graphnode.Coarse)
	b := graphnode.New("b", graphnode.Coarse)
	s.Add(a)
	s.Add(b)

	all := s.All()
	require.Len(t, all, 2)
	assert.Same(t, a, all[0])
	assert.Same(t, b, all[1])
}
