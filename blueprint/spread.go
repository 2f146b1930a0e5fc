package blueprint

import (
	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/graphnode"
	"github.com/vk/sitegraph/handle"
	"github.com/vk/sitegraph/nodeid"
	"github.com/vk/sitegraph/tracker"
)

// Spread1 commits d as a Fine task that reshapes an entire Many[A]
// collection into a new key→value map under fn's control — unlike
// Each1, fn sees the whole tracker at once and decides both the output
// keys and their values. Useful for tasks like pagination, where the
// downstream key set does not mirror the upstream one (spec §4.D/§4.H
// "Spread"; grounded on the same whole-collection access pattern as
// Using1, but producing Many instead of One).
func Spread1[G, A, R any](d *Def[G], m handle.Many[A], fn func(ctx *graphctx.Context[G], tr tracker.Tracker[A]) (map[nodeid.Key]R, error)) handle.Many[R] {
	d.DependsOn(m)
	n := graphnode.New(d.name, graphnode.Fine)
	n.Inputs = d.edges()
	n.EachUpstream = -1
	n.Body = func(gctx any, args []any) (any, error) {
		out, err := fn(gctx.(*graphctx.Context[G]), retypeTracker[A](args[0]))
		if err != nil {
			return nil, err
		}
		erased := make(map[nodeid.Key]any, len(out))
		for k, v := range out {
			erased[k] = v
		}
		return erased, nil
	}
	id := d.bp.topo.Add(n)
	return handle.NewMany[R](id)
}
