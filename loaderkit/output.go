// Package loaderkit provides convenience loader and output wrappers atop
// blueprint's primitives (Glob, Each, Using, Spread) for the recurring
// asset kinds a static site build needs: documents, images, stylesheets,
// scripts, Svelte components, a search index, and a sitemap. None of
// this is wired into the core graph model — every function here is
// implemented entirely in terms of the public blueprint/graphctx API, so
// a caller who needs a different document format or bundler is never
// blocked by it (spec Non-goals: "the library does not hardwire any
// particular markup, templating, or asset-processing approach").
//
// Grounded on original_source's loader/{generic,image,css,js,svelte,
// pagefind,sitemap}.rs, adapted from Rust trait-object loaders to Go
// closures over blueprint.Glob0/GlobUsing1/Using1.
package loaderkit

// Output is one finished file destined for the site's output directory:
// a path relative to the output root and its bytes. Grounded on
// original_source's `Output` (loader/mod.rs / output.rs), the type every
// page-rendering task ultimately produces and collector.Publish (package
// collector) consumes.
type Output struct {
	Path string
	Data []byte
}

// Asset is the result of a loader that publishes its input through the
// content-addressed store and hands back a stable URL, rather than
// producing a path-addressed Output directly (spec §4.A): stylesheets,
// scripts, and images are typically referenced by URL from HTML rather
// than being themselves top-level pages.
type Asset struct {
	URL string
}
