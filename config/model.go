// Package config loads the optional top-level build manifest
// (sitegraph.hcl) that carries process-level knobs with no natural home
// in the Go blueprint API: output/cache directories, worker count, and a
// free-form site metadata block (spec §10.B).
//
// Grounded on the teacher's internal/config (format-agnostic Model) and
// internal/hcl (gohcl-based decoding), simplified down to sitegraph's
// single, fixed manifest shape — there is no module-manifest/grid split
// here, since the task graph itself is always described in Go, never HCL
// (spec §4.E).
package config

// Model is the decoded contents of a sitegraph.hcl manifest.
type Model struct {
	// OutputDir is where the collector publishes the final Output set.
	// Defaults to "dist" if the manifest omits it or is absent entirely.
	OutputDir string `hcl:"output_dir,optional"`

	// CacheDir holds the on-disk CAS and any future persistent cache
	// state. Defaults to ".sitegraph-cache".
	CacheDir string `hcl:"cache_dir,optional"`

	// Workers is the executor's worker pool size. Zero means "use
	// runtime.NumCPU()".
	Workers int `hcl:"workers,optional"`

	Site *Site `hcl:"site,block"`
}

// Site is free-form metadata about the site being built, exposed to task
// bodies as part of the caller's global context rather than interpreted
// by sitegraph itself.
type Site struct {
	Title   string `hcl:"title,optional"`
	BaseURL string `hcl:"base_url,optional"`
}

// Defaults returns the zero-value manifest's effective settings, used
// when no sitegraph.hcl is present on disk.
func Defaults() *Model {
	return &Model{
		OutputDir: "dist",
		CacheDir:  ".sitegraph-cache",
	}
}

// applyDefaults fills zero-valued fields of m with the defaults,
// post-decode (gohcl leaves "optional" fields with no attribute at their
// Go zero value, not the manifest's conventional default).
func (m *Model) applyDefaults() {
	d := Defaults()
	if m.OutputDir == "" {
		m.OutputDir = d.OutputDir
	}
	if m.CacheDir == "" {
		m.CacheDir = d.CacheDir
	}
	if m.Site == nil {
		m.Site = &Site{}
	}
}
