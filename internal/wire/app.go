package wire

import (
	"context"
	"errors"
	"log"
	"os"
	"slices"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/viper"

	"github.com/mithrel/mdtree/internal/config"
	"github.com/mithrel/mdtree/internal/markdown"
	"github.com/mithrel/mdtree/internal/store"
	"github.com/mithrel/mdtree/internal/syntax"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      *log.Logger
	Markdown *markdown.Markdown
	// Cache is nil when cache.backend is off.
	Cache store.Cache
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	if err := config.CheckConfigValidity(v); err != nil {
		return nil, err
	}
	logger := log.New(os.Stdout, "mdtree ", log.LstdFlags)

	exts := v.GetStringSlice("parser.extensions")
	parser := syntax.NewParser(
		syntax.WithTables(slices.Contains(exts, "table")),
		syntax.WithStrikethrough(slices.Contains(exts, "strikethrough")),
		syntax.WithTaskList(slices.Contains(exts, "tasklist")),
	)
	var opts []markdown.Option
	if v.GetBool("render.sanitize_html") {
		opts = append(opts, markdown.WithSanitizer(bluemonday.UGCPolicy()))
	}

	app := &App{
		Cfg:      v,
		Log:      logger,
		Markdown: markdown.New(parser, opts...),
	}
	if url := config.CacheURL(v); url != "" {
		cache, err := store.Open(ctx, url, v.GetInt("cache.max_entries"))
		if err != nil {
			return nil, err
		}
		app.Cache = cache
	}
	return app, nil
}

// Close releases the render cache.
func (a *App) Close() error {
	if a.Cache == nil {
		return nil
	}
	return a.Cache.Close()
}

// RenderHTML renders src with the default renderers, serving repeated
// sources from the cache. hit reports a cache hit.
func (a *App) RenderHTML(ctx context.Context, src string) (html string, hit bool, err error) {
	if a.Cache == nil {
		html, err = a.Markdown.RenderHTML(src, nil)
		return html, false, err
	}
	key := a.Markdown.CacheKey(src)
	r, err := a.Cache.Get(ctx, key)
	switch {
	case err == nil:
		return r.HTML, true, nil
	case !errors.Is(err, store.ErrNotFound):
		a.Log.Printf("cache get: %v", err)
	}
	html, err = a.Markdown.RenderHTML(src, nil)
	if err != nil {
		return "", false, err
	}
	if err := a.Cache.Put(ctx, store.Render{Key: key, HTML: html}); err != nil {
		a.Log.Printf("cache put: %v", err)
	}
	return html, false, nil
}

