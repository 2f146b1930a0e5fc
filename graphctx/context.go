// Package graphctx defines the per-invocation capability object every
// task body receives: the user's global context, the CAS store
// capability, and the inherited import map (spec §3 "Global context",
// §4.G step 4).
package graphctx

import (
	"context"

	"github.com/vk/sitegraph/cas"
	"github.com/vk/sitegraph/importmap"
)

// Context is threaded to every task body. G is the user-supplied,
// shared-immutable global context (spec §5 "shared mutable state": "the
// user's global context G is shared-immutable; tasks receive a read-only
// reference").
type Context[G any] struct {
	std context.Context

	// Global is the user's build-wide configuration/state value, the
	// same for every node in a generation.
	Global G

	cas       *cas.Store
	inherited *importmap.Map
	local     *importmap.Map
}

// New constructs a Context. Used by the executor to build the argument
// passed into each node's body.
func New[G any](std context.Context, global G, store *cas.Store, inherited *importmap.Map) *Context[G] {
	return &Context[G]{
		std:       std,
		Global:    global,
		cas:       store,
		inherited: inherited,
		local:     importmap.New(),
	}
}

// Std returns the standard context.Context for cancellation/deadlines and
// for threading a logger via ctxlog.
func (c *Context[G]) Std() context.Context { return c.std }

// Store persists bytes to the content-addressed store and returns the
// artifact's public URL (spec §4.A).
func (c *Context[G]) Store(data []byte, ext string) (string, error) {
	return c.cas.Store(data, ext)
}

// Import registers a specifier→URL entry in this node's local import
// map. It takes precedence over any inherited entry for the same
// specifier (spec §4.B "local takes precedence for collisions").
func (c *Context[G]) Import(specifier, url string) {
	c.local.Register(specifier, url)
}

// Inherited returns the union of every upstream node's effective import
// map (spec §4.B). Callers must not mutate the returned map.
func (c *Context[G]) Inherited() *importmap.Map { return c.inherited }

// LocalImports returns the import-map entries this invocation registered
// via Import. It is called by the executor after the body returns, to
// fold the local map into the node's cached effective map.
func (c *Context[G]) LocalImports() *importmap.Map { return c.local }
