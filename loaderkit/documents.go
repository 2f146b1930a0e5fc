package loaderkit

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/vk/sitegraph/blueprint"
	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/handle"
	"github.com/vk/sitegraph/nodeid"
)

// Document is the parsed result of one Markdown-with-frontmatter source
// file: the decoded frontmatter (M), the raw Markdown body, and its
// rendered HTML. Grounded on original_source's loader/generic.rs
// Document<T>.
type Document[M any] struct {
	Path     nodeid.Key
	Metadata M
	Body     string
	HTML     string
}

const frontmatterDelim = "---\n"

// LoadDocuments registers a loader over pattern that splits each file's
// YAML frontmatter (delimited by "---" lines) from its Markdown body,
// decodes the frontmatter into M, and renders the body to HTML with
// goldmark's default settings. Callers who need extensions (tables,
// footnotes, syntax highlighting) or a different metadata convention
// should call blueprint.Glob0 directly instead — this wrapper is a
// convenience default, not the library's only way to load content.
func LoadDocuments[G any, M any](d *blueprint.Def[G], pattern string) handle.Many[Document[M]] {
	d.Source(pattern)
	return blueprint.Glob0[G, Document[M]](d, func(_ *graphctx.Context[G], key nodeid.Key, data []byte) (Document[M], error) {
		var meta M
		body := data

		if bytes.HasPrefix(data, []byte(frontmatterDelim)) {
			rest := data[len(frontmatterDelim):]
			end := bytes.Index(rest, []byte(frontmatterDelim))
			if end < 0 {
				return Document[M]{}, fmt.Errorf("loaderkit: %s: unterminated frontmatter block", key)
			}
			if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
				return Document[M]{}, fmt.Errorf("loaderkit: %s: decoding frontmatter: %w", key, err)
			}
			body = rest[end+len(frontmatterDelim):]
		}

		var rendered bytes.Buffer
		if err := goldmark.Convert(body, &rendered); err != nil {
			return Document[M]{}, fmt.Errorf("loaderkit: %s: rendering markdown: %w", key, err)
		}

		return Document[M]{
			Path:     key,
			Metadata: meta,
			Body:     string(body),
			HTML:     rendered.String(),
		}, nil
	})
}
