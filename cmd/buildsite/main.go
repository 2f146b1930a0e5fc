// Command buildsite is a minimal worked example of the sitegraph library:
// it describes a small blueprint (markdown pages, a stylesheet, and a
// sitemap) and runs a single Build. It exists to exercise the public API
// end-to-end, not as a general-purpose static site generator — a real
// site's blueprint lives in the caller's own Go code (spec §1: concrete
// loaders and page-rendering logic are the user's concern, not the
// library's).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/vk/sitegraph"
	"github.com/vk/sitegraph/blueprint"
	"github.com/vk/sitegraph/graphctx"
	"github.com/vk/sitegraph/loaderkit"
	"github.com/vk/sitegraph/nodeid"
)

// site is the global context every task body in this example receives.
type site struct {
	Title string
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("buildsite", flag.ContinueOnError)
	contentRoot := fs.String("content", "content", "directory of source content")
	manifest := fs.String("manifest", "sitegraph.hcl", "path to the optional build manifest")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := sitegraph.FromManifest(*manifest, *contentRoot)
	if err != nil {
		return fmt.Errorf("buildsite: loading manifest: %w", err)
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = "My Site"
	}

	bp := blueprint.New(site{Title: cfg.Site.Title})

	pages := loaderkit.LoadDocuments[site, pageMeta](bp.Task("pages"), "**/*.md")
	styles := loaderkit.LoadCSS(bp.Task("styles"), "**/*.css")

	rendered := blueprint.Each1(bp.Task("render"), pages, renderPage)
	sitemap := loaderkit.LoadSitemap(bp.Task("sitemap"), rendered, cfg.Site.BaseURL)

	bp.Publish(rendered, sitemap)
	_ = styles // referenced by page templates via ctx.Import in a real build

	website, err := sitegraph.New(bp, cfg)
	if err != nil {
		return fmt.Errorf("buildsite: %w", err)
	}

	return website.Build(context.Background(), site{Title: cfg.Site.Title})
}

type pageMeta struct {
	Title string `yaml:"title"`
}

func renderPage(ctx *graphctx.Context[site], key nodeid.Key, doc loaderkit.Document[pageMeta]) (loaderkit.Output, error) {
	title := doc.Metadata.Title
	if title == "" {
		title = ctx.Global.Title
	}
	html := fmt.Sprintf("<!doctype html><title>%s</title>%s", title, doc.HTML)
	return loaderkit.Output{Path: htmlPath(string(key)), Data: []byte(html)}, nil
}

func htmlPath(mdPath string) string {
	if len(mdPath) > 3 && mdPath[len(mdPath)-3:] == ".md" {
		return mdPath[:len(mdPath)-3] + ".html"
	}
	return mdPath + ".html"
}
