package blueprint

import (
	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/handle"
	"github.com/vk/sitegraph/nodeid"
	"github.com/vk/sitegraph/tracker"
)

// Using1 commits d as a Coarse task that reads a Many[A] upstream
// through a Tracker: the body sees every key at once and is re-run on
// any addition, removal, or modification within the collection (spec
// §4.D "if u is Many[T], v's body expects a tracker over T"; §4.H "a
// whole-collection read dirties on any member change").
func Using1[G, A, R any](d *Def[G], m handle.Many[A], fn func(ctx *graphctx.Context[G], tr tracker.Tracker[A]) (R, error)) handle.One[R] {
	d.DependsOn(m)
	return commitCoarse[G, R](d, func(gctx any, args []any) (any, error) {
		return fn(gctx.(*graphctx.Context[G]), retypeTracker[A](args[0]))
	})
}

// UsingWith1 is Using1 with one extra plain One[B] dependency alongside
// the tracked Many[A], for a merge body that also needs shared
// configuration or another coarse value.
func UsingWith1[G, A, B, R any](d *Def[G], m handle.Many[A], b handle.One[B], fn func(ctx *graphctx.Context[G], tr tracker.Tracker[A], bv B) (R, error)) handle.One[R] {
	d.DependsOn(m, b)
	return commitCoarse[G, R](d, func(gctx any, args []any) (any, error) {
		return fn(gctx.(*graphctx.Context[G]), retypeTracker[A](args[0]), args[1].(B))
	})
}

// retypeTracker narrows the executor's type-erased tracker.Tracker[any]
// into the statically-typed tracker.Tracker[A] the caller's body expects.
// This is safe because the executor only ever constructed this Tracker
// from a Many[A] edge — the type was erased solely so resultstore and
// the executor could stay generic-free, not because the underlying
// values are actually heterogeneous. The retyped Tracker shares the
// original's AccessLog, so reads through it still reach the executor's
// incremental bookkeeping.
func retypeTracker[A any](raw any) tracker.Tracker[A] {
	erased := raw.(tracker.Tracker[any])
	keys := erased.Keys()
	values := make(map[nodeid.Key]A, len(keys))
	for k, v := range erased.All() {
		values[k] = v.(A)
	}
	return tracker.New[A](keys, values, erased.AccessLog())
}
