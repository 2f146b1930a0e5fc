package sitegraph

import (
	"context"
	"fmt"

	"github.com/vk/sitegraph/collector"
	"github.com/vk/sitegraph/ctxlog"
	"github.com/vk/sitegraph/executor"
	"github.com/vk/sitegraph/loaderkit"
	"github.com/vk/sitegraph/sgerr"
)

// Build runs one generation to completion — evaluating every node,
// gathering every handle registered via Blueprint.Publish, and
// atomically swapping the result into cfg.OutputDir (spec §6
// "Website::build(G)"). global is the build-wide value every task body
// receives through *graphctx.Context[G]; it is passed per-call rather
// than fixed at New so a caller can vary it between builds (e.g. a
// "production" vs. "draft" flag) without reconstructing the graph.
func (w *Website[G]) Build(ctx context.Context, global G) error {
	w.global = global
	exec := executor.New[G](w.topo, w.analysis, w.results, w.cas, w.global, w.cfg.Workers)
	exec.ContentRoot = w.cfg.ContentRoot
	exec.Tracker = w.tracker

	if err := exec.Run(ctx); err != nil {
		return err
	}

	entries, err := w.collectOutputs()
	if err != nil {
		return err
	}

	staging := w.cfg.OutputDir + ".staging"
	logger := ctxlog.FromContext(ctx)
	if err := collector.Publish(logger, entries, staging, w.cfg.OutputDir); err != nil {
		return &sgerr.IoError{Op: "publish", Path: w.cfg.OutputDir, Err: err}
	}
	return nil
}

// collectOutputs resolves every handle registered via Blueprint.Publish
// into collector.Entry values. A published handle's resolved value must
// be a loaderkit.Output, a []loaderkit.Output, or (for a Many handle) a
// collection of loaderkit.Output — any other shape is a caller error
// caught here rather than silently dropped (spec §4.I "the collector is
// agnostic to how a page was produced, only that it is an Output").
func (w *Website[G]) collectOutputs() ([]collector.Entry, error) {
	var entries []collector.Entry

	for _, ref := range w.outputs {
		node := w.topo.MustGet(ref.NodeID())

		if !ref.IsMany() {
			coarse, ok := w.results.GetCoarse(ref.NodeID())
			if !ok {
				return nil, &sgerr.GraphError{Kind: sgerr.UnknownNode, Node: node.Name}
			}
			switch v := coarse.Value.(type) {
			case loaderkit.Output:
				entries = append(entries, collector.Entry{Path: v.Path, Data: v.Data, Node: node.Name})
			case []loaderkit.Output:
				for _, out := range v {
					entries = append(entries, collector.Entry{Path: out.Path, Data: out.Data, Node: node.Name})
				}
			default:
				return nil, fmt.Errorf("sitegraph: published handle %q resolved to %T, want loaderkit.Output or []loaderkit.Output", node.Name, coarse.Value)
			}
			continue
		}

		for _, key := range w.results.FineKeys(ref.NodeID()) {
			entry, ok := w.results.GetFineKey(ref.NodeID(), key)
			if !ok {
				continue
			}
			out, ok := entry.Value.(loaderkit.Output)
			if !ok {
				return nil, fmt.Errorf("sitegraph: published handle %q key %q resolved to %T, want loaderkit.Output", node.Name, key, entry.Value)
			}
			entries = append(entries, collector.Entry{Path: out.Path, Data: out.Data, Node: node.Name})
		}
	}

	return entries, nil
}
