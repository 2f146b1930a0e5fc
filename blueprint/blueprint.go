// Package blueprint is the fluent graph-construction API (spec §4.C,
// §4.D): a Blueprint accumulates Coarse and Fine tasks and wires them
// together through typed Handles, then Finish analyzes the result into
// an executable graph.
//
// Grounded on original_source's blueprint.rs TaskDef/TaskBinder/
// TaskSourceBinder builder chain, adapted to Go: Rust's trait-bounded
// `Dependencies` tuple (arbitrary arity via a trait) has no Go
// equivalent, and a method cannot introduce a new type parameter beyond
// its receiver's, so the typed "depends_on(D).run(F)" step becomes a
// family of free generic functions (Run1, Run2, Using1, Each1, ...)
// parameterized over both the blueprint's G and each dependency's
// element type. Def itself stays a plain, non-generic-beyond-G builder
// that only the name()/source() chain methods touch.
package blueprint

import (
	"github.com/vk/sitegraph/graphanalysis"
	"github.com/vk/sitegraph/graphnode"
	"github.com/vk/sitegraph/handle"
	"github.com/vk/sitegraph/topology"
)

// Blueprint accumulates a graph's tasks before it is finalized into a
// runnable Website (see package sitegraph). G is the type of the
// build-wide value every task body receives through *graphctx.Context[G].
type Blueprint[G any] struct {
	topo    *topology.Store
	Global  G
	outputs []handle.Ref
}

// New returns an empty Blueprint carrying global as the shared value
// passed to every task.
func New[G any](global G) *Blueprint[G] {
	return &Blueprint[G]{topo: topology.New(), Global: global}
}

// Publish marks refs as final build outputs (spec §4.I): the collector
// gathers whatever each resolves to — loaderkit.Output, []loaderkit.Output,
// or a Many[loaderkit.Output] collection — at the end of every Build.
func (b *Blueprint[G]) Publish(refs ...handle.Ref) {
	b.outputs = append(b.outputs, refs...)
}

// Outputs returns every handle registered via Publish, in registration order.
func (b *Blueprint[G]) Outputs() []handle.Ref { return b.outputs }

// Def is the entry point for describing one task: a name, optionally a
// source glob (making it a loader), and a dependency list, before
// committing it to the graph via one of the free Run/Using/Each/Glob
// functions.
type Def[G any] struct {
	bp      *Blueprint[G]
	name    string
	pattern string
	deps    []handle.Ref
}

// Task begins describing a new task named name.
func (b *Blueprint[G]) Task(name string) *Def[G] {
	return &Def[G]{bp: b, name: name}
}

// Source marks this task as a loader: its Fine output is keyed by every
// file matching pattern under the build's content root (spec §4.E).
// A loader's edges carry no keyed input, but it may still declare extra
// non-keyed dependencies passed to every invocation, e.g. shared config
// (see GlobUsing1).
func (d *Def[G]) Source(pattern string) *Def[G] {
	d.pattern = pattern
	return d
}

// DependsOn records additional upstream handles this task's body will
// receive. Order is preserved and matches the argument order the
// Run/Using/Each functions expect.
func (d *Def[G]) DependsOn(refs ...handle.Ref) *Def[G] {
	d.deps = append(d.deps, refs...)
	return d
}

func (d *Def[G]) edges() []graphnode.Edge {
	edges := make([]graphnode.Edge, len(d.deps))
	for i, ref := range d.deps {
		edges[i] = graphnode.Edge{Upstream: ref.NodeID(), Many: ref.IsMany()}
	}
	return edges
}

// Finish analyzes the accumulated graph (cycle detection, topological
// leveling, the loader and consumer indexes) and finalizes the
// topology, after which no further tasks may be added. The returned
// Analysis and topology are what an Executor (package executor) runs.
func (b *Blueprint[G]) Finish() (*topology.Store, *graphanalysis.Analysis, error) {
	b.topo.Finalize()
	analysis, err := graphanalysis.Analyze(b.topo)
	if err != nil {
		return nil, nil, err
	}
	return b.topo, analysis, nil
}
