package sitegraph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/sitegraph/blueprint"
	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/loaderkit"
	"github.com/vk/sitegraph/nodeid"
)

type testGlobal struct {
	Title string
}

func writeContent(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.md"), []byte("---\ntitle: Home\n---\n# Home\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "about.md"), []byte("---\ntitle: About\n---\n# About\n"), 0o644))
}

type pageMeta struct {
	Title string `yaml:"title"`
}

func buildTestSite(t *testing.T, contentRoot, outputDir, cacheDir string) *Website[testGlobal] {
	t.Helper()
	bp := blueprint.New[testGlobal](testGlobal{Title: "Test"})

	pages := loaderkit.LoadDocuments[testGlobal, pageMeta](bp.Task("pages"), "*.md")
	rendered := blueprint.Each1(bp.Task("render"), pages, func(ctx *graphctx.Context[testGlobal], key nodeid.Key, doc loaderkit.Document[pageMeta]) (loaderkit.Output, error) {
		path := key[:len(key)-len(".md")] + ".html"
		return loaderkit.Output{Path: string(path), Data: []byte(doc.HTML)}, nil
	})
	bp.Publish(rendered)

	site, err := New[testGlobal](bp, Config{
		ContentRoot: contentRoot,
		OutputDir:   outputDir,
		CacheDir:    cacheDir,
		Workers:     2,
	})
	require.NoError(t, err)
	return site
}

func TestBuild_PublishesRenderedPagesToOutputDir(t *testing.T) {
	base := t.TempDir()
	content := filepath.Join(base, "content")
	require.NoError(t, os.MkdirAll(content, 0o755))
	writeContent(t, content)

	outputDir := filepath.Join(base, "dist")
	cacheDir := filepath.Join(base, "cache")

	site := buildTestSite(t, content, outputDir, cacheDir)
	require.NoError(t, site.Build(context.Background(), testGlobal{Title: "Test"}))

	data, err := os.ReadFile(filepath.Join(outputDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Home</h1>")

	data, err = os.ReadFile(filepath.Join(outputDir, "about.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>About</h1>")
}

func TestBuild_SecondGenerationReflectsContentChange(t *testing.T) {
	base := t.TempDir()
	content := filepath.Join(base, "content")
	require.NoError(t, os.MkdirAll(content, 0o755))
	writeContent(t, content)

	outputDir := filepath.Join(base, "dist")
	cacheDir := filepath.Join(base, "cache")

	site := buildTestSite(t, content, outputDir, cacheDir)
	require.NoError(t, site.Build(context.Background(), testGlobal{Title: "Test"}))

	require.NoError(t, os.WriteFile(filepath.Join(content, "index.md"), []byte("---\ntitle: Home\n---\n# Updated\n"), 0o644))
	require.NoError(t, site.Build(context.Background(), testGlobal{Title: "Test"}))

	data, err := os.ReadFile(filepath.Join(outputDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Updated</h1>")
}

func TestFromManifest_MissingManifestStillSetsContentRoot(t *testing.T) {
	base := t.TempDir()
	cfg, err := FromManifest(filepath.Join(base, "sitegraph.hcl"), filepath.Join(base, "content"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "content"), cfg.ContentRoot)
	assert.Equal(t, "dist", cfg.OutputDir)
}
