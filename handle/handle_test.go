package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vk/sitegraph/nodeid"
)

func TestOne_RefShape(t *testing.T) {
	h := NewOne[string](nodeid.ID(3))
	assert.Equal(t, nodeid.ID(3), h.NodeID())
	assert.False(t, h.IsMany())

	var ref Ref = h
	assert.Equal(t, nodeid.ID(3), ref.NodeID())
}

func TestMany_RefShape(t *testing.T) {
	h := NewMany[int](nodeid.ID(7))
	assert.Equal(t, nodeid.ID(7), h.NodeID())
	assert.True(t, h.IsMany())

	var ref Ref = h
	assert.True(t, ref.IsMany())
}
