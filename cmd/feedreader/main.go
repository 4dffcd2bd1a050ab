// Package main provides the CLI entry point for feedreader.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/lepinkainen/feedreader/internal/config"
	"github.com/lepinkainen/feedreader/pkg/fetch"
	"github.com/lepinkainen/feedreader/pkg/filesystem"
	httputil "github.com/lepinkainen/feedreader/pkg/http"
	"github.com/lepinkainen/feedreader/pkg/page"
	"github.com/lepinkainen/feedreader/pkg/reader"
	"github.com/lepinkainen/feedreader/pkg/render"
	"github.com/lepinkainen/feedreader/pkg/tui"
)

// CLI structure
var CLI struct {
	Config string `help:"Configuration file path" default:"feedreader.yaml"`
	Debug  bool   `help:"Enable debug logging" default:"false"`

	Feeds struct {
		YAML bool `help:"Print the feed list as a YAML config section" name:"yaml"`
	} `cmd:"feeds" help:"List the configured feeds."`

	Validate struct{} `cmd:"validate" help:"Validate the configured feeds."`

	Load struct {
		Index   int           `help:"Feed index (0-based)" short:"i" default:"0"`
		HTML    bool          `help:"Print the feed container HTML instead of entry titles" name:"html"`
		Timeout time.Duration `help:"Maximum time to wait for the feed" default:"30s"`
	} `cmd:"load" help:"Load a feed and print its entries."`

	Page struct {
		Index   int           `help:"Feed index (0-based)" short:"i" default:"0"`
		Outfile string        `help:"Write the page to this file instead of stdout" short:"o"`
		Timeout time.Duration `help:"Maximum time to wait for the feed" default:"30s"`
	} `cmd:"page" help:"Load a feed and print the whole reader page."`

	Read struct{} `cmd:"read" help:"Read feeds interactively."`
}

func main() {
	// Parse CLI with Kong YAML configuration file loading
	ctx := kong.Parse(&CLI,
		kong.Configuration(kongyaml.Loader, "feedreader.yaml", "~/.feedreader/feedreader.yaml"),
	)

	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "path", CLI.Config, "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "feeds":
		listFeeds(cfg, CLI.Feeds.YAML)

	case "validate":
		validateFeeds(cfg)

	case "load":
		loadFeed(cfg, CLI.Load.Index, CLI.Load.HTML, CLI.Load.Timeout)

	case "page":
		renderPage(cfg, CLI.Page.Index, CLI.Page.Outfile, CLI.Page.Timeout)

	case "read":
		app := newApp(context.Background(), cfg)
		if err := tui.Run(app); err != nil {
			slog.Error("Reader failed", "error", err)
			os.Exit(1)
		}

	default:
		panic(ctx.Command())
	}
}

// newApp builds a reader bound to a fresh page from the configuration
func newApp(ctx context.Context, cfg *config.Config) *reader.App {
	reg, err := cfg.Registry()
	if err != nil {
		slog.Error("Invalid feed registry", "error", err)
		os.Exit(1)
	}

	doc, err := page.NewHTMLDocument()
	if err != nil {
		slog.Error("Failed to build page", "error", err)
		os.Exit(1)
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	return reader.New(ctx, reader.Config{
		Registry: reg,
		Fetcher:  fetch.NewFetcher(httputil.NewClient(cfg.ClientConfig())),
		Renderer: renderer,
		Document: doc,
	})
}

func listFeeds(cfg *config.Config, asYAML bool) {
	reg, err := cfg.Registry()
	if err != nil {
		slog.Error("Invalid feed registry", "error", err)
		os.Exit(1)
	}

	if asYAML {
		data, err := reg.Marshal()
		if err != nil {
			slog.Error("Failed to encode feed list", "error", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
		return
	}

	for i, feed := range reg.All() {
		fmt.Printf("%2d. %s  %s\n", i, feed.Name, feed.URL)
	}
}

func validateFeeds(cfg *config.Config) {
	reg, err := cfg.Registry()
	if err != nil {
		slog.Error("Invalid feed registry", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%d feeds OK\n", reg.Len())
}

// waitForLoad loads feed index into app's page and exits on failure
func waitForLoad(app *reader.App, index int, timeout time.Duration) {
	slog.Debug("Loading feed", "index", index)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := app.Loader.Load(ctx, index).Wait(ctx)
	if err != nil {
		slog.Error("Failed to load feed", "index", index, "error", err)
		os.Exit(1)
	}

	slog.Debug("Feed loaded", "feed", result.Feed.Name, "entries", len(result.Entries), "duration", result.Duration)
}

func loadFeed(cfg *config.Config, index int, asHTML bool, timeout time.Duration) {
	app := newApp(context.Background(), cfg)
	waitForLoad(app, index, timeout)

	if asHTML {
		fmt.Println(app.Document.FeedHTML())
		return
	}

	for _, title := range app.Document.QueryEntries() {
		fmt.Println(title)
	}
}

func renderPage(cfg *config.Config, index int, outfile string, timeout time.Duration) {
	app := newApp(context.Background(), cfg)
	waitForLoad(app, index, timeout)

	doc, ok := app.Document.(*page.HTMLDocument)
	if !ok {
		slog.Error("Page cannot be rendered", "type", fmt.Sprintf("%T", app.Document))
		os.Exit(1)
	}

	html, err := doc.Render()
	if err != nil {
		slog.Error("Failed to render page", "error", err)
		os.Exit(1)
	}

	if outfile == "" {
		fmt.Println(html)
		return
	}

	if err := filesystem.WriteFile(outfile, []byte(html)); err != nil {
		slog.Error("Failed to write page", "path", outfile, "error", err)
		os.Exit(1)
	}
	slog.Info("Page written", "path", outfile)
}
