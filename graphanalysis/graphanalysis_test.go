package graphanalysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/sitegraph/graphnode"
	"github.com/vk/sitegraph/nodeid"
	"github.com/vk/sitegraph/sgerr"
	"github.com/vk/sitegraph/topology"
)

func link(store *topology.Store, n *graphnode.Node, upstreams ...nodeid.ID) nodeid.ID {
	for _, u := range upstreams {
		n.Inputs = append(n.Inputs, graphnode.Edge{Upstream: u})
	}
	return store.Add(n)
}

func TestAnalyze_LevelsDiamond(t *testing.T) {
	store := topology.New()
	a := link(store, graphnode.New("a", graphnode.Coarse))
	b := link(store, graphnode.New("b", graphnode.Coarse), a)
	c := link(store, graphnode.New("c", graphnode.Coarse), a)
	link(store, graphnode.New("d", graphnode.Coarse), b, c)
	store.Finalize()

	analysis, err := Analyze(store)
	require.NoError(t, err)
	require.Len(t, analysis.Levels, 3)
	assert.Equal(t, []nodeid.ID{a}, analysis.Levels[0])
	assert.ElementsMatch(t, []nodeid.ID{b, c}, analysis.Levels[1])
}

func TestAnalyze_ConsumersIndex(t *testing.T) {
	store := topology.New()
	a := link(store, graphnode.New("a", graphnode.Coarse))
	b := link(store, graphnode.New("b", graphnode.Coarse), a)
	c := link(store, graphnode.New("c", graphnode.Coarse), a)
	store.Finalize()

	analysis, err := Analyze(store)
	require.NoError(t, err)
	assert.ElementsMatch(t, []nodeid.ID{b, c}, analysis.Consumers[a])
}

func TestAnalyze_DetectsCycle(t *testing.T) {
	store := topology.New()
	a := graphnode.New("a", graphnode.Coarse)
	b := graphnode.New("b", graphnode.Coarse)
	idA := store.Add(a)
	idB := store.Add(b)
	a.Inputs = append(a.Inputs, graphnode.Edge{Upstream: idB})
	b.Inputs = append(b.Inputs, graphnode.Edge{Upstream: idA})
	store.Finalize()

	_, err := Analyze(store)
	require.Error(t, err)
	var graphErr *sgerr.GraphError
	require.ErrorAs(t, err, &graphErr)
	assert.Equal(t, sgerr.Cycle, graphErr.Kind)
	assert.ElementsMatch(t, []string{"a", "b"}, graphErr.Nodes)
}

func TestAnalyze_LoadersIndex(t *testing.T) {
	store := topology.New()
	loader := graphnode.New("pages", graphnode.Fine)
	loader.Source = &graphnode.SourceSpec{Pattern: "**/*.md"}
	store.Add(loader)
	store.Add(graphnode.New("css", graphnode.Coarse))
	store.Finalize()

	analysis, err := Analyze(store)
	require.NoError(t, err)
	require.Len(t, analysis.Loaders, 1)
	assert.Equal(t, "**/*.md", analysis.Loaders[0].Pattern)
}

func TestAnalyze_EmptyGraph(t *testing.T) {
	store := topology.New()
	store.Finalize()

	analysis, err := Analyze(store)
	require.NoError(t, err)
	assert.Empty(t, analysis.Levels)
	assert.Empty(t, analysis.Loaders)
}
