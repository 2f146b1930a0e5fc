package loaderkit

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/vk/sitegraph/blueprint"
	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/handle"
	"github.com/vk/sitegraph/tracker"
)

// LoadPagefind registers a merge task that materializes every page in
// pages to a scratch directory, runs the external pagefind binary
// against it, and collects whatever files pagefind wrote back out as
// additional Outputs (typically a "_pagefind/" directory of search
// index chunks). Grounded on original_source's loader/pagefind.rs,
// which likewise scans rendered HTML output and produces a self-
// contained search asset directory — reimplemented here as a subprocess
// call rather than an embedded pagefind library, matching the same
// os/exec convention as LoadSvelte (spec Non-goals: no embedded search
// engine).
//
// command is invoked as `command args... scratchDir`; pagefind's own
// --output-subdir / --site flags determine where, under scratchDir, the
// generated assets land, so args must tell it to write inside
// scratchDir (e.g. []string{"--site", "."}).
func LoadPagefind[G any](d *blueprint.Def[G], pages handle.Many[Output], command string, args ...string) handle.One[[]Output] {
	return blueprint.Using1[G, Output, []Output](d, pages, func(ctx *graphctx.Context[G], tr tracker.Tracker[Output]) ([]Output, error) {
		scratch, err := os.MkdirTemp("", "sitegraph-pagefind-*")
		if err != nil {
			return nil, fmt.Errorf("loaderkit: creating scratch directory: %w", err)
		}
		defer os.RemoveAll(scratch)

		staged := make(map[string]struct{})
		for _, key := range tr.Keys() {
			page, _ := tr.Get(key)
			rel := filepath.FromSlash(page.Path)
			staged[rel] = struct{}{}
			target := filepath.Join(scratch, rel)
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return nil, fmt.Errorf("loaderkit: staging %s: %w", page.Path, err)
			}
			if err := os.WriteFile(target, page.Data, 0o644); err != nil {
				return nil, fmt.Errorf("loaderkit: staging %s: %w", page.Path, err)
			}
		}

		if err := runPagefind(ctx.Std(), command, args, scratch); err != nil {
			return nil, fmt.Errorf("loaderkit: running pagefind: %w", err)
		}

		return collectGenerated(scratch, staged)
	})
}

func runPagefind(ctx context.Context, command string, args []string, scratchDir string) error {
	cmd := exec.CommandContext(ctx, command, append(args, scratchDir)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", command, err, out)
	}
	return nil
}

// collectGenerated walks root and returns every file not present in
// staged — i.e. whatever pagefind added beyond the pages it was handed.
func collectGenerated(root string, staged map[string]struct{}) ([]Output, error) {
	var outputs []Output
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if _, isInput := staged[rel]; isInput {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		outputs = append(outputs, Output{Path: filepath.ToSlash(rel), Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outputs, nil
}
