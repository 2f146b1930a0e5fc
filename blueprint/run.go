package blueprint

import (
	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/graphnode"
	"github.com/vk/sitegraph/handle"
)

// Run0 commits d as a Coarse task with no typed dependencies beyond
// whatever was already attached via DependsOn (those are ignored by fn
// but still ordered edges in the graph — prefer Run1..Run3 when the
// body needs their values).
func Run0[G, R any](d *Def[G], fn func(ctx *graphctx.Context[G]) (R, error)) handle.One[R] {
	return commitCoarse[G, R](d, func(gctx any, _ []any) (any, error) {
		return fn(gctx.(*graphctx.Context[G]))
	})
}

// Run1 commits d as a Coarse task depending on a single typed One upstream.
func Run1[G, A, R any](d *Def[G], a handle.One[A], fn func(ctx *graphctx.Context[G], av A) (R, error)) handle.One[R] {
	d.DependsOn(a)
	return commitCoarse[G, R](d, func(gctx any, args []any) (any, error) {
		return fn(gctx.(*graphctx.Context[G]), args[0].(A))
	})
}

// Run2 commits d as a Coarse task depending on two typed One upstreams.
func Run2[G, A, B, R any](d *Def[G], a handle.One[A], b handle.One[B], fn func(ctx *graphctx.Context[G], av A, bv B) (R, error)) handle.One[R] {
	d.DependsOn(a, b)
	return commitCoarse[G, R](d, func(gctx any, args []any) (any, error) {
		return fn(gctx.(*graphctx.Context[G]), args[0].(A), args[1].(B))
	})
}

// Run3 commits d as a Coarse task depending on three typed One upstreams.
func Run3[G, A, B, C, R any](d *Def[G], a handle.One[A], b handle.One[B], c handle.One[C], fn func(ctx *graphctx.Context[G], av A, bv B, cv C) (R, error)) handle.One[R] {
	d.DependsOn(a, b, c)
	return commitCoarse[G, R](d, func(gctx any, args []any) (any, error) {
		return fn(gctx.(*graphctx.Context[G]), args[0].(A), args[1].(B), args[2].(C))
	})
}

func commitCoarse[G, R any](d *Def[G], body func(gctx any, args []any) (any, error)) handle.One[R] {
	n := graphnode.New(d.name, graphnode.Coarse)
	n.Inputs = d.edges()
	n.Body = body
	id := d.bp.topo.Add(n)
	return handle.NewOne[R](id)
}
