// Package graphnode defines Node, the type-erased unit of computation that
// the rest of sitegraph schedules and executes. The node store (package
// topology) holds Nodes; typed handles (package handle) let callers work
// with a node's output without the store itself knowing any concrete Go
// type.
//
// # Why type erasure lives here
//
// A Blueprint accumulates tasks whose input and output types differ from
// node to node — there is no single Go type that could describe "a node"
// generically without boxing. Node boxes a task's behavior behind a
// closure (Body) and its static shape behind Kind; the handle package
// recovers type safety at the call site by witnessing the concrete type a
// Handle[T] was constructed with. This mirrors how the teacher's node
// store separates structure from behavior, generalized here from a
// fixed step/resource vocabulary to an arbitrary user-defined body.
package graphnode

import (
	"sync/atomic"

	"github.com/vk/sitegraph/nodeid"
)

// Kind determines the shape of a node's output.
type Kind int

const (
	// Coarse nodes produce a single value of some type T (One[T]).
	Coarse Kind = iota
	// Fine nodes produce an ordered mapping from nodeid.Key to a value of
	// some type T (Many[T]).
	Fine
)

func (k Kind) String() string {
	if k == Fine {
		return "fine"
	}
	return "coarse"
}

// State is the execution status of a node within one generation.
type State int32

const (
	// Pending indicates the node has not yet been scheduled this generation.
	Pending State = iota
	// Running indicates a worker is currently evaluating the node (or, for
	// a Fine node, at least one of its keys).
	Running
	// Done indicates the node (and, for Fine nodes, all of its dirty keys)
	// finished evaluating successfully.
	Done
	// Failed indicates the node's body returned an error, or the node was
	// skipped because an upstream dependency failed.
	Failed
)

// SourceSpec marks a node as a loader: its output is derived from files on
// disk matching Pattern. The incremental tracker (package tracker) uses
// this to map filesystem changes back to the loader nodes they affect.
type SourceSpec struct {
	// Pattern is a glob pattern (doublestar syntax) describing the files
	// this loader consumes.
	Pattern string
}

// Body is the type-erased closure a node invokes when evaluated. gctx is
// the build's *graphctx.Context[G], boxed as any: the closure itself is
// produced by the blueprint package while G is still known, so it can
// safely assert gctx back to its concrete *graphctx.Context[G] — only
// the Node's storage of the closure is type-erased, not the closure's
// own knowledge of G. args holds the resolved upstream values (or
// tracker.Tracker proxies for Many upstreams) in handle order.
type Body func(gctx any, args []any) (any, error)

// Node is a single vertex in the execution graph.
type Node struct {
	id   nodeid.ID
	Name string
	Kind Kind

	// Inputs lists, in call order, the upstream nodes this node's Body
	// depends on. Each element also records whether the upstream is a
	// Fine (Many) node, since the incremental tracker applies different
	// dirty-propagation rules across One vs. Many edges (spec §4.H).
	Inputs []Edge

	// Body is invoked with resolved upstream arguments. Fine nodes
	// produced via Each/Glob use KeyBody instead, invoked per dirty key;
	// a Fine node produced via Spread uses Body, once per generation, to
	// compute its whole key→value collection.
	Body Body
	// KeyBody is the per-key evaluator for Fine nodes produced via
	// Each/Glob. It receives the resolved extra (non-keyed) arguments
	// plus the single keyed upstream item for one key, and returns that
	// key's value.
	KeyBody func(gctx any, key nodeid.Key, keyedArg any, extras []any) (any, error)

	// EachUpstream is set for Fine nodes produced via Each: the index
	// into Inputs of the Many upstream being mapped over, keyed per-item.
	// -1 for nodes that are not per-item maps over an upstream (loaders
	// produced via Glob, merge/spread over Many, or nodes with no Many
	// upstream at all).
	EachUpstream int

	Source *SourceSpec

	state atomic.Int32
}

// Edge describes one upstream dependency of a node.
type Edge struct {
	Upstream nodeid.ID
	Many     bool
}

// New constructs a Node. EachUpstream defaults to -1 (not a per-item map).
func New(name string, kind Kind) *Node {
	return &Node{Name: name, Kind: kind, EachUpstream: -1}
}

// SetID is called exactly once by the node store when the node is added.
func (n *Node) SetID(id nodeid.ID) { n.id = id }

// ID returns the node's identifier.
func (n *Node) ID() nodeid.ID { return n.id }

// State atomically reads the node's current execution state.
func (n *Node) State() State { return State(n.state.Load()) }

// SetState atomically sets the node's execution state.
func (n *Node) SetState(s State) { n.state.Store(int32(s)) }
