package blueprint

import (
	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/graphnode"
	"github.com/vk/sitegraph/handle"
	"github.com/vk/sitegraph/nodeid"
)

// Glob0 commits d as a loader: pattern must already have been set via
// Def.Source. fn is invoked once per matching file with its raw bytes
// and returns the parsed value stored under that file's relative path
// as the Fine node's key (spec §4.E).
func Glob0[G, R any](d *Def[G], fn func(ctx *graphctx.Context[G], key nodeid.Key, data []byte) (R, error)) handle.Many[R] {
	return commitLoader[G, R](d, func(gctx any, key nodeid.Key, data any, _ []any) (any, error) {
		return fn(gctx.(*graphctx.Context[G]), key, data.([]byte))
	})
}

// GlobUsing1 is Glob0 with one extra shared One[B] dependency passed to
// every per-file call (e.g. shared front-matter schema or site config).
func GlobUsing1[G, B, R any](d *Def[G], b handle.One[B], fn func(ctx *graphctx.Context[G], key nodeid.Key, data []byte, extra B) (R, error)) handle.Many[R] {
	d.DependsOn(b)
	return commitLoader[G, R](d, func(gctx any, key nodeid.Key, data any, extras []any) (any, error) {
		return fn(gctx.(*graphctx.Context[G]), key, data.([]byte), extras[0].(B))
	})
}

func commitLoader[G, R any](d *Def[G], body func(gctx any, key nodeid.Key, data any, extras []any) (any, error)) handle.Many[R] {
	n := graphnode.New(d.name, graphnode.Fine)
	n.Inputs = d.edges()
	n.EachUpstream = -1
	n.Source = &graphnode.SourceSpec{Pattern: d.pattern}
	n.KeyBody = body
	id := d.bp.topo.Add(n)
	return handle.NewMany[R](id)
}
