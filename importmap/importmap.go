// Package importmap implements the ambient specifier→URL side channel
// that is propagated alongside every typed value in a sitegraph build
// (spec §3 "ImportMap", §4.B).
//
// Each node has a local map (populated by the node's own body) and sees an
// inherited map (the union of every upstream's effective map). The
// effective map for a node is inherited merged with local, local winning
// on key collisions. Collision policy across multiple upstreams for the
// same key is intentionally unspecified (spec §4.B, §9) — Merge applies a
// deterministic but unspecified last-write-wins rule so behavior is at
// least reproducible, even though callers must not depend on which
// upstream wins.
package importmap

import (
	"encoding/json"
	"fmt"
)

// Map is a specifier→URL mapping. It matches the shape of a browser
// import map's "imports" field (see
// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/script/type/importmap).
type Map struct {
	imports map[string]string
}

// New returns an empty Map.
func New() *Map {
	return &Map{imports: make(map[string]string)}
}

// Register adds or overwrites a single specifier→URL entry.
func (m *Map) Register(specifier, url string) {
	if m.imports == nil {
		m.imports = make(map[string]string)
	}
	m.imports[specifier] = url
}

// Get returns the URL registered for a specifier, if any.
func (m *Map) Get(specifier string) (string, bool) {
	url, ok := m.imports[specifier]
	return url, ok
}

// Len reports the number of registered specifiers.
func (m *Map) Len() int { return len(m.imports) }

// Clone returns an independent copy of m.
func (m *Map) Clone() *Map {
	out := New()
	for k, v := range m.imports {
		out.imports[k] = v
	}
	return out
}

// Merge returns a new Map that is the union of the given maps, applied in
// order, later maps winning on key collisions. Passing the inherited map
// first and the node's local map last implements the "inherited ⊕ local,
// local wins" rule from spec §4.B.
func Merge(maps ...*Map) *Map {
	out := New()
	for _, m := range maps {
		if m == nil {
			continue
		}
		for k, v := range m.imports {
			out.imports[k] = v
		}
	}
	return out
}

// MarshalJSON serializes the map as {"imports": {...}}, matching the
// browser import-map specification's top-level shape.
func (m *Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Imports map[string]string `json:"imports"`
	}{Imports: m.imports})
}

// ToHTML renders the map as a `<script type="importmap">` tag, ready to be
// embedded in an HTML document's <head>. The library only produces the
// merged map (spec §6); wrapping it in HTML is offered here purely as an
// opt-in convenience, not a requirement — callers are free to serialize
// the map themselves via json.Marshal(m) and wrap it however they like.
func (m *Map) ToHTML() (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("importmap: marshal: %w", err)
	}
	return `<script type="importmap">` + string(data) + `</script>`, nil
}
