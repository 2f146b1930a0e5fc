package blueprint

import (
	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/graphnode"
	"github.com/vk/sitegraph/handle"
	"github.com/vk/sitegraph/nodeid"
)

// Each1 commits d as a Fine task that invokes fn once per key of m,
// producing a new Many[R] with the same key set. Unlike Using1, a
// consumer downstream of the result sees only the keys whose upstream
// entry actually changed re-evaluated (spec §4.D "each.map").
func Each1[G, A, R any](d *Def[G], m handle.Many[A], fn func(ctx *graphctx.Context[G], key nodeid.Key, item A) (R, error)) handle.Many[R] {
	d.DependsOn(m)
	return commitEachMap[G, R](d, 0, func(gctx any, key nodeid.Key, keyedArg any, _ []any) (any, error) {
		return fn(gctx.(*graphctx.Context[G]), key, keyedArg.(A))
	})
}

// EachUsing1 is Each1 with one extra shared One[B] dependency passed to
// every per-key call alongside the keyed item.
func EachUsing1[G, A, B, R any](d *Def[G], m handle.Many[A], b handle.One[B], fn func(ctx *graphctx.Context[G], key nodeid.Key, item A, extra B) (R, error)) handle.Many[R] {
	d.DependsOn(m, b)
	return commitEachMap[G, R](d, 0, func(gctx any, key nodeid.Key, keyedArg any, extras []any) (any, error) {
		return fn(gctx.(*graphctx.Context[G]), key, keyedArg.(A), extras[0].(B))
	})
}

func commitEachMap[G, R any](d *Def[G], eachUpstream int, body func(gctx any, key nodeid.Key, keyedArg any, extras []any) (any, error)) handle.Many[R] {
	n := graphnode.New(d.name, graphnode.Fine)
	n.Inputs = d.edges()
	n.EachUpstream = eachUpstream
	n.KeyBody = body
	id := d.bp.topo.Add(n)
	return handle.NewMany[R](id)
}
