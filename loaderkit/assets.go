package loaderkit

import (
	"path/filepath"
	"strings"

	"github.com/vk/sitegraph/blueprint"
	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/handle"
	"github.com/vk/sitegraph/nodeid"
)

// LoadImage registers a loader over pattern that publishes every
// matched file's raw bytes to the content-addressed store unchanged and
// returns its URL. Resizing, format conversion, and the like are
// explicitly out of scope for the library (spec Non-goals) — callers
// needing that should call blueprint.Glob0 with their own image
// pipeline; this wrapper only covers the pass-through case (static
// icons, already-optimized images).
func LoadImage[G any](d *blueprint.Def[G], pattern string) handle.Many[Asset] {
	d.Source(pattern)
	return blueprint.Glob0[G, Asset](d, storeRaw[G])
}

// LoadCSS registers a loader over pattern that publishes each matched
// stylesheet to the content-addressed store unchanged. A Sass/Less/Grass
// preprocessing pipeline is a different concern the caller can bolt on
// with its own blueprint.Glob0 call.
func LoadCSS[G any](d *blueprint.Def[G], pattern string) handle.Many[Asset] {
	d.Source(pattern)
	return blueprint.Glob0[G, Asset](d, storeRaw[G])
}

// LoadJS registers a loader over pattern that publishes each matched
// script to the content-addressed store unchanged.
func LoadJS[G any](d *blueprint.Def[G], pattern string) handle.Many[Asset] {
	d.Source(pattern)
	return blueprint.Glob0[G, Asset](d, storeRaw[G])
}

func storeRaw[G any](ctx *graphctx.Context[G], key nodeid.Key, data []byte) (Asset, error) {
	ext := strings.TrimPrefix(filepath.Ext(string(key)), ".")
	url, err := ctx.Store(data, ext)
	if err != nil {
		return Asset{}, err
	}
	return Asset{URL: url}, nil
}
