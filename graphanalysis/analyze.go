// Package graphanalysis implements the graph analyzer (spec §4.F): cycle
// detection, topological leveling, a reverse-edge (consumers) index used
// by both the executor and the incremental tracker, and the
// source→loader index the tracker uses to map filesystem changes back to
// graph nodes.
//
// Analysis runs once, at Blueprint.Finish, over a topology.Store that is
// about to become read-only. It is grounded on the teacher's
// internal/dag cycle-detection pass, generalized from a single DFS walk
// to a Kahn-style topological sort so the same pass produces levels and
// detects cycles together (a remaining nonzero in-degree after the sort
// converges is, by definition, a cycle — spec §4.F step 2).
package graphanalysis

import (
	"sort"

	"github.com/vk/sitegraph/graphnode"
	"github.com/vk/sitegraph/nodeid"
	"github.com/vk/sitegraph/sgerr"
	"github.com/vk/sitegraph/topology"
)

// LoaderInfo records one loader node's glob pattern, for the source index
// (spec §4.F step 4).
type LoaderInfo struct {
	ID      nodeid.ID
	Pattern string
}

// Analysis is the immutable result of analyzing a finalized topology.
type Analysis struct {
	// Levels buckets every node by its longest distance from a root
	// (spec §4.F step 3). The executor does not read Levels: it releases
	// each node as soon as all of its own upstreams have finished, using
	// per-node dependency counters over Consumers.
	Levels [][]nodeid.ID

	// Consumers is the reverse-adjacency index: Consumers[u] lists every
	// node that has u in its Inputs (spec §4.F step 1).
	Consumers map[nodeid.ID][]nodeid.ID

	// Loaders lists every node with a non-nil SourceSpec, for the
	// incremental tracker's path→NodeId index (spec §4.F step 4).
	Loaders []LoaderInfo
}

// Analyze runs the graph analyzer over a finalized topology store.
// It returns a *sgerr.GraphError (Kind: Cycle) if the graph is not
// acyclic, listing every node that could not be scheduled.
func Analyze(store *topology.Store) (*Analysis, error) {
	nodes := store.All()
	n := len(nodes)

	inDegree := make([]int, n)
	consumers := make(map[nodeid.ID][]nodeid.ID, n)
	for _, node := range nodes {
		inDegree[node.ID()] = len(node.Inputs)
		for _, edge := range node.Inputs {
			consumers[edge.Upstream] = append(consumers[edge.Upstream], node.ID())
		}
	}

	levels := [][]nodeid.ID{}
	remaining := make([]int, n)
	copy(remaining, inDegree)

	processed := 0
	frontier := rootsOf(nodes, remaining)
	for len(frontier) > 0 {
		sort.Slice(frontier, func(i, j int) bool { return frontier[i] < frontier[j] })
		levels = append(levels, frontier)
		processed += len(frontier)

		var next []nodeid.ID
		for _, id := range frontier {
			for _, consumer := range consumers[id] {
				remaining[consumer]--
				if remaining[consumer] == 0 {
					next = append(next, consumer)
				}
			}
		}
		frontier = next
	}

	if processed != n {
		var stuck []string
		for _, node := range nodes {
			if remaining[node.ID()] > 0 {
				stuck = append(stuck, node.Name)
			}
		}
		return nil, &sgerr.GraphError{Kind: sgerr.Cycle, Nodes: stuck}
	}

	var loaders []LoaderInfo
	for _, node := range nodes {
		if node.Source != nil {
			loaders = append(loaders, LoaderInfo{ID: node.ID(), Pattern: node.Source.Pattern})
		}
	}

	return &Analysis{Levels: levels, Consumers: consumers, Loaders: loaders}, nil
}

func rootsOf(nodes []*graphnode.Node, remaining []int) []nodeid.ID {
	var roots []nodeid.ID
	for _, node := range nodes {
		if remaining[node.ID()] == 0 {
			roots = append(roots, node.ID())
		}
	}
	return roots
}
