package loaderkit

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vk/sitegraph/blueprint"
	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/handle"
	"github.com/vk/sitegraph/nodeid"
)

// LoadSvelte registers a loader over pattern that compiles each matched
// component by invoking an external toolchain command (e.g. "deno" or
// "esbuild") as a subprocess, piping the source file's path as the final
// argument and capturing stdout as the compiled bundle. Grounded on
// original_source's loader/svelte.rs, which deliberately does not embed
// a JS engine and instead shells out to Deno — the same os/exec
// invocation pattern is used here for any external compiler the caller
// names, since sitegraph itself has no opinion on which toolchain
// produces the bundle (spec Non-goals).
func LoadSvelte[G any](d *blueprint.Def[G], pattern string, command string, args ...string) handle.Many[Asset] {
	d.Source(pattern)
	return blueprint.Glob0[G, Asset](d, func(ctx *graphctx.Context[G], key nodeid.Key, _ []byte) (Asset, error) {
		out, err := runCompiler(ctx.Std(), command, args, string(key))
		if err != nil {
			return Asset{}, fmt.Errorf("loaderkit: compiling %s: %w", key, err)
		}
		ext := strings.TrimPrefix(filepath.Ext(string(key)), ".")
		if ext == "" {
			ext = "js"
		}
		url, err := ctx.Store(out, ext)
		if err != nil {
			return Asset{}, err
		}
		return Asset{URL: url}, nil
	})
}

func runCompiler(ctx context.Context, command string, args []string, sourcePath string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, command, append(args, sourcePath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", command, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
