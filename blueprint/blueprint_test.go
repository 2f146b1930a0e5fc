package blueprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/graphnode"
	"github.com/vk/sitegraph/nodeid"
	"github.com/vk/sitegraph/tracker"
)

func TestRun0_CommitsCoarseNodeWithNoInputs(t *testing.T) {
	bp := New[string]("g")
	h := Run0(bp.Task("config"), func(ctx *graphctx.Context[string]) (int, error) {
		return 1, nil
	})

	node := bp.topo.MustGet(h.NodeID())
	assert.Equal(t, graphnode.Coarse, node.Kind)
	assert.Empty(t, node.Inputs)
}

func TestRun1_WiresDependsOnEdge(t *testing.T) {
	bp := New[string]("g")
	a := Run0(bp.Task("a"), func(ctx *graphctx.Context[string]) (int, error) { return 1, nil })
	b := Run1(bp.Task("b"), a, func(ctx *graphctx.Context[string], av int) (int, error) { return av + 1, nil })

	node := bp.topo.MustGet(b.NodeID())
	require.Len(t, node.Inputs, 1)
	assert.Equal(t, a.NodeID(), node.Inputs[0].Upstream)
	assert.False(t, node.Inputs[0].Many)
}

func TestEach1_CommitsFineNodeWithEachUpstreamIndex(t *testing.T) {
	bp := New[string]("g")
	m := Glob0(bp.Task("pages").Source("**/*.md"), func(ctx *graphctx.Context[string], key nodeid.Key, data []byte) (string, error) {
		return string(data), nil
	})
	out := Each1(bp.Task("render"), m, func(ctx *graphctx.Context[string], key nodeid.Key, item string) (string, error) {
		return item + "!", nil
	})

	node := bp.topo.MustGet(out.NodeID())
	assert.Equal(t, graphnode.Fine, node.Kind)
	assert.Equal(t, 0, node.EachUpstream)
	require.Len(t, node.Inputs, 1)
	assert.True(t, node.Inputs[0].Many)
}

func TestGlob0_SetsSourceSpecFromDefSource(t *testing.T) {
	bp := New[string]("g")
	m := Glob0(bp.Task("pages").Source("**/*.md"), func(ctx *graphctx.Context[string], key nodeid.Key, data []byte) (string, error) {
		return string(data), nil
	})

	node := bp.topo.MustGet(m.NodeID())
	require.NotNil(t, node.Source)
	assert.Equal(t, "**/*.md", node.Source.Pattern)
}

func TestPublish_RecordsOutputsInOrder(t *testing.T) {
	bp := New[string]("g")
	a := Run0(bp.Task("a"), func(ctx *graphctx.Context[string]) (int, error) { return 1, nil })
	b := Run0(bp.Task("b"), func(ctx *graphctx.Context[string]) (int, error) { return 2, nil })

	bp.Publish(a, b)
	outputs := bp.Outputs()
	require.Len(t, outputs, 2)
	assert.Equal(t, a.NodeID(), outputs[0].NodeID())
	assert.Equal(t, b.NodeID(), outputs[1].NodeID())
}

func TestFinish_AcyclicGraphSucceedsAndFinalizesTopology(t *testing.T) {
	bp := New[string]("g")
	Run0(bp.Task("a"), func(ctx *graphctx.Context[string]) (int, error) { return 1, nil })

	_, _, err := bp.Finish()
	require.NoError(t, err)
	assert.Panics(t, func() {
		bp.topo.Add(graphnode.New("late", graphnode.Coarse))
	})
}

func TestSpread1_ReshapesKeySet(t *testing.T) {
	bp := New[string]("g")
	m := Glob0(bp.Task("pages").Source("**/*.md"), func(ctx *graphctx.Context[string], key nodeid.Key, data []byte) (string, error) {
		return string(data), nil
	})
	out := Spread1(bp.Task("paginate"), m, func(ctx *graphctx.Context[string], tr tracker.Tracker[string]) (map[nodeid.Key]string, error) {
		return map[nodeid.Key]string{"page-1": "x"}, nil
	})

	node := bp.topo.MustGet(out.NodeID())
	assert.Equal(t, graphnode.Fine, node.Kind)
	assert.Equal(t, -1, node.EachUpstream)
	assert.NotNil(t, node.Body)
}
