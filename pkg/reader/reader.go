// Package reader wires the feed registry, menu and loader to a page.
package reader

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/feedreader/pkg/loader"
	"github.com/lepinkainen/feedreader/pkg/menu"
	"github.com/lepinkainen/feedreader/pkg/page"
	"github.com/lepinkainen/feedreader/pkg/registry"
)

// Config holds the dependencies of an App
type Config struct {
	Registry *registry.Registry
	Fetcher  loader.Fetcher
	Renderer loader.Renderer
	Document page.Document
}

// App is a running feed reader bound to one page
type App struct {
	Registry *registry.Registry
	Document page.Document
	Menu     *menu.Controller
	Loader   *loader.Loader

	ctx context.Context
}

// New builds the feed list menu and registers the page's click handlers.
// Loads started from clicks use ctx.
func New(ctx context.Context, cfg Config) *App {
	app := &App{
		Registry: cfg.Registry,
		Document: cfg.Document,
		Menu:     menu.New(cfg.Document),
		Loader:   loader.New(cfg.Registry, cfg.Fetcher, cfg.Renderer, cfg.Document),
		ctx:      ctx,
	}

	cfg.Document.SetFeedList(cfg.Registry.Names())

	cfg.Document.OnClick(page.MenuIconSelector, func() {
		app.Menu.Toggle()
	})

	for i := range cfg.Registry.Len() {
		cfg.Document.OnClick("#"+page.FeedLinkID(i), func() {
			app.SelectFeed(i)
		})
	}

	return app
}

// Init loads the first feed
func (a *App) Init() *loader.Task {
	return a.Loader.Load(a.ctx, 0)
}

// SelectFeed loads the feed at index and closes the menu, the way picking a
// link from the feed list does
func (a *App) SelectFeed(index int) *loader.Task {
	slog.Debug("Feed selected", "index", index)

	task := a.Loader.Load(a.ctx, index)
	if a.Menu.Visible() {
		a.Menu.Toggle()
	}
	return task
}

// Reload loads the feed currently on the page again, or the first feed if
// nothing has been loaded yet
func (a *App) Reload() *loader.Task {
	index := 0
	if current, ok := a.Loader.Current(); ok {
		index = current.Index
	}
	return a.Loader.Load(a.ctx, index)
}

// ClickMenuIcon activates the menu icon on the page
func (a *App) ClickMenuIcon() bool {
	return a.Document.Click(page.MenuIconSelector)
}

// ClickFeedLink activates the i-th link of the feed list on the page
func (a *App) ClickFeedLink(i int) bool {
	return a.Document.Click("#" + page.FeedLinkID(i))
}
