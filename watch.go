package sitegraph

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/sitegraph/cas"
	"github.com/vk/sitegraph/ctxlog"
	"github.com/vk/sitegraph/globutil"
	"github.com/vk/sitegraph/nodeid"
)

// ChangeKind is the kind of filesystem change a watch collaborator
// reported for a path (spec §6 "(path, kind ∈ {created, modified,
// deleted})").
type ChangeKind int

const (
	Created ChangeKind = iota
	Modified
	Deleted
)

// ChangeEvent is one deduplicated path change, as delivered by the
// caller's file-watching collaborator — debouncing and the watch
// backend itself are outside the core (spec §6, explicit external
// collaborator; Non-goals §1 "file-watching ... out of scope").
type ChangeEvent struct {
	Path string
	Kind ChangeKind
}

// Watch runs generations in response to events until ctx is canceled or
// the events channel is closed. Each batch of pending events is used to
// rescan only the loader nodes whose glob pattern could plausibly match
// one of the changed paths; Engine.ScanLoader/Dirty then determine
// whether anything actually changed relative to the last generation,
// so an edit outside any loader's content (or a file a loader had
// already skipped due to an unrelated extension) never triggers a
// wasted rebuild. An error from a single generation is logged and
// watching continues, awaiting the next change — it does not return,
// matching build()'s abort-on-error being explicitly not this
// function's contract (spec §7 "watch() logs it and remains running").
func (w *Website[G]) Watch(ctx context.Context, global G, events <-chan ChangeEvent) error {
	logger := ctxlog.FromContext(ctx)
	w.global = global

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			batch := drain(events, ev)
			if !w.anyLoaderDirty(logger, batch) {
				logger.Debug("watch: no matching loader for changed paths, skipping generation", "count", len(batch))
				continue
			}
			logger.Info("watch: starting generation", "changed", len(batch))
			if err := w.Build(ctx, global); err != nil {
				logger.Error("watch: generation failed", "error", err)
			}
		}
	}
}

// drain collects first plus every event already queued on events,
// without blocking, so a burst of saves coalesces into one generation
// instead of one per file.
func drain(events <-chan ChangeEvent, first ChangeEvent) []ChangeEvent {
	batch := []ChangeEvent{first}
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return batch
			}
			batch = append(batch, ev)
		default:
			return batch
		}
	}
}

// anyLoaderDirty rescans every loader node's glob against ContentRoot,
// feeds the result to w.tracker.ScanLoader/Dirty, and reports whether at
// least one loader actually gained, lost, or changed a matched file.
// The per-key fingerprint comparison the executor performs during Build
// (evaluateLoader) is the authoritative one; this pass exists only to
// decide whether a generation is worth starting at all, and to log which
// downstream consumers the tracker expects to be affected.
func (w *Website[G]) anyLoaderDirty(logger *slog.Logger, batch []ChangeEvent) bool {
	changedPaths := make(map[string]struct{}, len(batch))
	for _, ev := range batch {
		changedPaths[filepath.ToSlash(ev.Path)] = struct{}{}
	}

	dirty := false
	for _, loader := range w.analysis.Loaders {
		relevant := false
		for path := range changedPaths {
			if globutil.Match(loader.Pattern, path) {
				relevant = true
				break
			}
		}
		if !relevant {
			continue
		}

		matches, err := globutil.Find(w.cfg.ContentRoot, loader.Pattern)
		if err != nil {
			logger.Warn("watch: rescanning loader failed", "pattern", loader.Pattern, "error", err)
			dirty = true // be conservative: force a generation anyway
			continue
		}

		scan := make(map[nodeid.Key]cas.Hash, len(matches))
		for _, rel := range matches {
			data, readErr := os.ReadFile(filepath.Join(w.cfg.ContentRoot, rel))
			if readErr != nil {
				continue
			}
			scan[nodeid.Key(rel)] = cas.Fingerprint(data)
		}

		changed, removed := w.tracker.ScanLoader(loader.ID, scan)
		if len(changed) == 0 && len(removed) == 0 {
			continue
		}
		dirty = true

		consumers := w.analysis.Consumers[loader.ID]
		for consumer, d := range w.tracker.Dirty(loader.ID, changed, removed, consumers) {
			node := w.topo.MustGet(consumer)
			logger.Debug("watch: consumer affected", "node", node.Name, "full", d.Full, "keys", len(d.Keys))
		}
	}
	return dirty
}
