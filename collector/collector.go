// Package collector implements the final publish step (component I):
// gathering every task's declared Output entries, resolving path
// collisions, and swapping them into the public output directory as one
// atomic unit.
//
// Grounded on cas.Store's write-temp-then-rename pattern (package cas),
// generalized from a single hash-named file to an entire directory tree:
// the whole build is staged next to the final output directory and
// published with a pair of renames, so a reader never observes a
// half-written site.
package collector

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Entry is one file to publish: its path relative to the output
// directory, its bytes, and the name of the node that produced it (used
// only for the duplicate-path warning).
type Entry struct {
	Path string
	Data []byte
	Node string
}

// Publish writes every entry under a fresh staging directory and then
// atomically swaps it into finalDir. If two entries share a Path, the
// later one (in entries order) wins and a warning is logged naming both
// producing nodes (spec §4.I "dedupe-by-path, later wins"). The
// collision pass is sequential (order-dependent), but the actual file
// writes — the expensive part for a large site — fan out across an
// errgroup.Group (the executor's worker pool uses its own
// WaitGroup/dependency-counter scheme instead).
func Publish(logger *slog.Logger, entries []Entry, stagingDir, finalDir string) error {
	if err := os.RemoveAll(stagingDir); err != nil {
		return fmt.Errorf("collector: clearing staging directory: %w", err)
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return fmt.Errorf("collector: creating staging directory: %w", err)
	}

	owner := make(map[string]string, len(entries))
	winners := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if prior, dup := owner[e.Path]; dup {
			logger.Warn("collector: duplicate output path, later task wins",
				"path", e.Path, "previous", prior, "current", e.Node)
		}
		owner[e.Path] = e.Node
		winners[e.Path] = e
	}

	var g errgroup.Group
	for _, e := range winners {
		g.Go(func() error {
			target := filepath.Join(stagingDir, filepath.FromSlash(e.Path))
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("collector: creating directory for %s: %w", e.Path, err)
			}
			if err := os.WriteFile(target, e.Data, 0o644); err != nil {
				return fmt.Errorf("collector: writing %s: %w", e.Path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return swap(stagingDir, finalDir)
}

// swap replaces finalDir with stagingDir's contents. If finalDir already
// exists it is first moved aside, so a failed second rename can still be
// rolled back rather than leaving the site half-published.
func swap(stagingDir, finalDir string) error {
	if _, err := os.Stat(finalDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("collector: checking output directory: %w", err)
		}
		if err := os.Rename(stagingDir, finalDir); err != nil {
			return fmt.Errorf("collector: publishing output directory: %w", err)
		}
		return nil
	}

	backup := finalDir + ".old"
	_ = os.RemoveAll(backup)
	if err := os.Rename(finalDir, backup); err != nil {
		return fmt.Errorf("collector: backing up previous output: %w", err)
	}
	if err := os.Rename(stagingDir, finalDir); err != nil {
		_ = os.Rename(backup, finalDir) // best-effort rollback
		return fmt.Errorf("collector: publishing output directory: %w", err)
	}
	return os.RemoveAll(backup)
}
