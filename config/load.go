package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Load reads and decodes the manifest at path using gohcl, the way the
// teacher's internal/hcl package decodes step/resource blocks — here
// applied to sitegraph's single, fixed top-level schema rather than a
// dynamic runner-defined one, since there is no per-module schema to
// merge in (the task graph is Go, not HCL).
//
// A missing file is not an error: Load returns Defaults() with the same
// post-decode defaults a decoded manifest gets (including an empty Site
// block), so that sitegraph.hcl is always optional (spec §10.B).
func Load(path string) (*Model, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		m := Defaults()
		m.applyDefaults()
		return m, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parsing %s: %w", path, diags)
	}

	var m Model
	if diags := gohcl.DecodeBody(file.Body, nil, &m); diags.HasErrors() {
		return nil, fmt.Errorf("config: decoding %s: %w", path, diags)
	}
	m.applyDefaults()
	return &m, nil
}
