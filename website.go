// Package sitegraph is the library's root: it wires the blueprint,
// executor, tracker, CAS, and collector packages into the two
// operations a caller actually drives, Build and Watch (spec §6
// "Website::build(G)"/"Website::watch(G)").
//
// Grounded on original_source's website.rs/core.rs (the Rust
// equivalent's top-level Website type) for the shape of these two
// operations, and on the teacher's internal/app.App for the
// constructor-wires-everything-together style: FromManifest decodes the
// optional manifest into a Config, and New builds every long-lived
// collaborator once and returns a value whose methods are the entire
// public surface a caller needs.
package sitegraph

import (
	"runtime"

	"github.com/vk/sitegraph/blueprint"
	"github.com/vk/sitegraph/cas"
	"github.com/vk/sitegraph/config"
	"github.com/vk/sitegraph/graphanalysis"
	"github.com/vk/sitegraph/handle"
	"github.com/vk/sitegraph/resultstore"
	"github.com/vk/sitegraph/resultstore/inmemory"
	"github.com/vk/sitegraph/topology"
	"github.com/vk/sitegraph/tracker"
)

// Config carries the process-level knobs a Website needs beyond the
// Go-described task graph itself (spec §10.B). FromManifest loads this from
// sitegraph.hcl; callers that don't want a manifest file can build one
// directly.
type Config struct {
	// ContentRoot is the directory every loader's glob pattern is
	// resolved against.
	ContentRoot string
	OutputDir   string
	CacheDir    string
	Workers     int
	Site        config.Site
}

// FromManifest loads manifestPath (optional — see config.Load) and
// returns a Config with ContentRoot set to contentRoot.
func FromManifest(manifestPath, contentRoot string) (Config, error) {
	m, err := config.Load(manifestPath)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		ContentRoot: contentRoot,
		OutputDir:   m.OutputDir,
		CacheDir:    m.CacheDir,
		Workers:     m.Workers,
	}
	if m.Site != nil {
		cfg.Site = *m.Site
	}
	return cfg, nil
}

// Website is a finalized graph plus every long-lived collaborator needed
// to run it: the result cache, the CAS, and the incremental tracker
// engine survive across generations, while the topology and analysis
// never change once Finish has run (spec §3 "Node store is immutable
// after finish()").
type Website[G any] struct {
	topo     *topology.Store
	analysis *graphanalysis.Analysis
	results  resultstore.Store
	cas      *cas.Store
	tracker  *tracker.Engine
	global   G
	cfg      Config
	outputs  []handle.Ref
}

// New finalizes bp and returns a Website ready to Build or Watch.
func New[G any](bp *blueprint.Blueprint[G], cfg Config) (*Website[G], error) {
	topo, analysis, err := bp.Finish()
	if err != nil {
		return nil, err
	}

	if cfg.Workers < 1 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "dist"
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = ".sitegraph-cache"
	}

	return &Website[G]{
		topo:     topo,
		analysis: analysis,
		results:  inmemory.New(),
		cas:      cas.New(cacheHashDir(cfg.CacheDir)),
		tracker:  tracker.NewEngine(),
		global:   bp.Global,
		cfg:      cfg,
		outputs:  bp.Outputs(),
	}, nil
}

func cacheHashDir(cacheDir string) string {
	return cacheDir + "/hash"
}
