// Package handle provides the typed tokens callers use to wire a
// Blueprint's tasks together without ever touching the underlying
// type-erased node store.
//
// A Handle is a lightweight value — just a nodeid.ID plus a phantom type
// parameter — so it is cheap to copy and does not own the node it refers
// to (spec §3 "Handle"). Two variants exist:
//
//   - One[T] resolves to a single value of type T (a Coarse node).
//   - Many[T] resolves to an ordered key→value collection (a Fine node).
//
// The phantom type parameter is what lets the blueprint package recover
// static type safety over a type-erased node store: a function that
// expects One[string] cannot accidentally be handed a Many[int], because
// the compiler rejects the mismatch at the call site (spec §8 property 4,
// "Type safety"). This is the Go rendering of the "generics + type-tagged
// wrappers" approach the spec's design notes call out (§9) as the
// statically-typed encoding of handle-witnessed type erasure.
package handle

import "github.com/vk/sitegraph/nodeid"

// Ref is implemented by both One[T] and Many[T]; it exposes only the
// information the graph-construction layer needs (the node identity and
// whether the edge is Many-typed) without exposing T, so that blueprint
// code which only needs to wire edges (not read values) can accept either
// handle kind uniformly.
type Ref interface {
	NodeID() nodeid.ID
	IsMany() bool
}

// One is a handle to a node's single, Coarse output value.
type One[T any] struct {
	id nodeid.ID
}

// NewOne constructs a One handle for the given node. Only the blueprint
// package calls this; it is exported so that other first-party packages
// (loaderkit) built atop blueprint's primitives can construct handles
// without a dependency cycle back into blueprint.
func NewOne[T any](id nodeid.ID) One[T] { return One[T]{id: id} }

// NodeID returns the underlying node identifier.
func (h One[T]) NodeID() nodeid.ID { return h.id }

// IsMany reports false: One handles are never Many-typed edges.
func (h One[T]) IsMany() bool { return false }

// Many is a handle to a node's Fine output: an ordered key→value mapping.
type Many[T any] struct {
	id nodeid.ID
}

// NewMany constructs a Many handle for the given node.
func NewMany[T any](id nodeid.ID) Many[T] { return Many[T]{id: id} }

// NodeID returns the underlying node identifier.
func (h Many[T]) NodeID() nodeid.ID { return h.id }

// IsMany reports true: Many handles always carry a Many-typed edge.
func (h Many[T]) IsMany() bool { return true }
