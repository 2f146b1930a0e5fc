package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/sitegraph/cas"
	"github.com/vk/sitegraph/globutil"
	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/graphnode"
	"github.com/vk/sitegraph/importmap"
	"github.com/vk/sitegraph/nodeid"
	"github.com/vk/sitegraph/resultstore"
	"github.com/vk/sitegraph/sgerr"
	"github.com/vk/sitegraph/tracker"
)

// evaluate dispatches a single node to the evaluator matching its shape.
func (e *Executor[G]) evaluate(ctx context.Context, node *graphnode.Node) error {
	switch {
	case node.Kind == graphnode.Coarse:
		return e.evaluateCoarse(ctx, node)
	case node.Kind == graphnode.Fine && node.Source != nil:
		return e.evaluateLoader(ctx, node)
	case node.Kind == graphnode.Fine && node.EachUpstream >= 0:
		return e.evaluateEachMap(ctx, node)
	case node.Kind == graphnode.Fine:
		return e.evaluateBulkFine(ctx, node)
	default:
		return errUnreachable
	}
}

// resolved is what resolveArgs gathers from a node's Inputs: the boxed
// argument values in call order, the merged inherited import map, and,
// for every Many edge, the AccessLog its Tracker recorded into (so the
// caller can feed it back to the incremental engine once the body
// returns).
type resolved struct {
	args      []any
	inherited *importmap.Map
	accesses  map[nodeid.ID]*tracker.AccessLog
}

func (e *Executor[G]) resolveArgs(node *graphnode.Node) (resolved, error) {
	out := resolved{
		inherited: importmap.New(),
		accesses:  make(map[nodeid.ID]*tracker.AccessLog),
	}

	for _, edge := range node.Inputs {
		if edge.Many {
			keys := e.results.FineKeys(edge.Upstream)
			values := make(map[nodeid.Key]any, len(keys))
			for _, k := range keys {
				entry, ok := e.results.GetFineKey(edge.Upstream, k)
				if ok {
					values[k] = entry.Value
				}
			}
			log := tracker.NewAccessLog()
			out.accesses[edge.Upstream] = log
			out.args = append(out.args, tracker.New[any](keys, values, log))

			if imp, ok := e.results.GetFineImports(edge.Upstream); ok {
				out.inherited = importmap.Merge(out.inherited, imp)
			}
			continue
		}

		coarse, ok := e.results.GetCoarse(edge.Upstream)
		if !ok {
			upstream := e.topo.MustGet(edge.Upstream)
			return resolved{}, &sgerr.GraphError{Kind: sgerr.UnknownNode, Node: upstream.Name}
		}
		out.args = append(out.args, coarse.Value)
		out.inherited = importmap.Merge(out.inherited, coarse.Imports)
	}

	return out, nil
}

func (e *Executor[G]) recordAccesses(node nodeid.ID, accesses map[nodeid.ID]*tracker.AccessLog) {
	if e.Tracker == nil {
		return
	}
	for upstream, log := range accesses {
		e.Tracker.RecordAccess(node, upstream, log)
	}
}

func (e *Executor[G]) evaluateCoarse(ctx context.Context, node *graphnode.Node) error {
	res, err := e.resolveArgs(node)
	if err != nil {
		return err
	}

	gctx := graphctx.New[G](ctx, e.global, e.cas, res.inherited)
	value, err := node.Body(gctx, res.args)
	if err != nil {
		return &sgerr.TaskError{Node: node.Name, Err: err}
	}

	e.recordAccesses(node.ID(), res.accesses)

	effective := importmap.Merge(res.inherited, gctx.LocalImports())
	e.results.SetCoarse(node.ID(), resultstore.CoarseResult{Value: value, Imports: effective})
	return nil
}

// evaluateLoader scans ContentRoot for files matching the node's glob
// pattern, invokes KeyBody once per matched path, and removes result
// entries for paths that no longer match (spec §4.H "Deletion semantics").
func (e *Executor[G]) evaluateLoader(ctx context.Context, node *graphnode.Node) error {
	res, err := e.resolveArgs(node)
	if err != nil {
		return err
	}

	matches, err := globutil.Find(e.ContentRoot, node.Source.Pattern)
	if err != nil {
		return &sgerr.LoaderError{Kind: sgerr.PathNotFound, Path: e.ContentRoot, Err: err}
	}

	seen := make(map[nodeid.Key]struct{}, len(matches))
	mergedImports, _ := e.results.GetFineImports(node.ID())
	if mergedImports == nil {
		mergedImports = importmap.New()
	} else {
		mergedImports = mergedImports.Clone()
	}

	for _, rel := range matches {
		key := nodeid.Key(rel)
		seen[key] = struct{}{}

		data, readErr := os.ReadFile(filepath.Join(e.ContentRoot, rel))
		if readErr != nil {
			return &sgerr.LoaderError{Kind: sgerr.ReadFailed, Path: rel, Err: readErr}
		}
		fingerprint := cas.Fingerprint(data)

		if existing, ok := e.results.GetFineKey(node.ID(), key); ok && existing.Fingerprint == fingerprint {
			continue
		}

		gctx := graphctx.New[G](ctx, e.global, e.cas, res.inherited)
		value, bodyErr := node.KeyBody(gctx, key, data, res.args)
		if bodyErr != nil {
			return &sgerr.TaskError{Node: node.Name, Key: string(key), Err: bodyErr}
		}
		e.results.SetFineKey(node.ID(), key, resultstore.FineEntry{Value: value, Fingerprint: fingerprint})
		mergedImports = importmap.Merge(mergedImports, gctx.LocalImports())
	}

	for _, key := range e.results.FineKeys(node.ID()) {
		if _, ok := seen[key]; !ok {
			e.results.DeleteFineKey(node.ID(), key)
		}
	}

	e.recordAccesses(node.ID(), res.accesses)
	e.results.SetFineImports(node.ID(), mergedImports)
	return nil
}

// evaluateEachMap maps KeyBody over every key of the node's single Many
// upstream (the one named by EachUpstream), passing every other resolved
// input as a shared "extra" argument to each per-key call.
func (e *Executor[G]) evaluateEachMap(ctx context.Context, node *graphnode.Node) error {
	res, err := e.resolveArgs(node)
	if err != nil {
		return err
	}

	upstreamEdge := node.Inputs[node.EachUpstream]
	keys := e.results.FineKeys(upstreamEdge.Upstream)
	extras := make([]any, 0, len(res.args)-1)
	for i, a := range res.args {
		if i == node.EachUpstream {
			continue
		}
		extras = append(extras, a)
	}

	seen := make(map[nodeid.Key]struct{}, len(keys))
	mergedImports, _ := e.results.GetFineImports(node.ID())
	if mergedImports == nil {
		mergedImports = importmap.New()
	} else {
		mergedImports = mergedImports.Clone()
	}

	for _, key := range keys {
		seen[key] = struct{}{}
		upstreamEntry, ok := e.results.GetFineKey(upstreamEdge.Upstream, key)
		if !ok {
			continue
		}

		if existing, ok := e.results.GetFineKey(node.ID(), key); ok && existing.Fingerprint == upstreamEntry.Fingerprint {
			continue
		}

		gctx := graphctx.New[G](ctx, e.global, e.cas, res.inherited)
		value, bodyErr := node.KeyBody(gctx, key, upstreamEntry.Value, extras)
		if bodyErr != nil {
			return &sgerr.TaskError{Node: node.Name, Key: string(key), Err: bodyErr}
		}
		e.results.SetFineKey(node.ID(), key, resultstore.FineEntry{Value: value, Fingerprint: upstreamEntry.Fingerprint})
		mergedImports = importmap.Merge(mergedImports, gctx.LocalImports())
	}

	for _, key := range e.results.FineKeys(node.ID()) {
		if _, ok := seen[key]; !ok {
			e.results.DeleteFineKey(node.ID(), key)
		}
	}

	e.recordAccesses(node.ID(), res.accesses)
	e.results.SetFineImports(node.ID(), mergedImports)
	return nil
}

// evaluateBulkFine runs a Fine node with neither a source glob nor a
// per-item map: a reshaping producer (blueprint.Spread1) whose Body
// computes the entire key→value collection in one call, typically by
// reading a whole Many upstream through a Tracker and regrouping it
// under new keys. Since the whole collection is recomputed on every
// invocation, per-entry fingerprints are derived from the encoded value
// rather than carried forward, so downstream each-map consumers still
// see stable fingerprints for keys whose reshaped content didn't change.
func (e *Executor[G]) evaluateBulkFine(ctx context.Context, node *graphnode.Node) error {
	res, err := e.resolveArgs(node)
	if err != nil {
		return err
	}

	gctx := graphctx.New[G](ctx, e.global, e.cas, res.inherited)
	raw, bodyErr := node.Body(gctx, res.args)
	if bodyErr != nil {
		return &sgerr.TaskError{Node: node.Name, Err: bodyErr}
	}
	produced, ok := raw.(map[nodeid.Key]any)
	if !ok {
		return &sgerr.TaskError{Node: node.Name, Err: fmt.Errorf("spread body returned %T, want map[nodeid.Key]any", raw)}
	}

	seen := make(map[nodeid.Key]struct{}, len(produced))
	for key, value := range produced {
		seen[key] = struct{}{}
		fingerprint := cas.Fingerprint([]byte(fmt.Sprintf("%#v", value)))
		e.results.SetFineKey(node.ID(), key, resultstore.FineEntry{Value: value, Fingerprint: fingerprint})
	}
	for _, key := range e.results.FineKeys(node.ID()) {
		if _, ok := seen[key]; !ok {
			e.results.DeleteFineKey(node.ID(), key)
		}
	}

	e.recordAccesses(node.ID(), res.accesses)
	e.results.SetFineImports(node.ID(), gctx.LocalImports())
	return nil
}
