package reader_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/sclevine/spec"

	. "github.com/onsi/gomega"

	"github.com/lepinkainen/feedreader/pkg/fetch"
	httputil "github.com/lepinkainen/feedreader/pkg/http"
	"github.com/lepinkainen/feedreader/pkg/loader"
	"github.com/lepinkainen/feedreader/pkg/menu"
	"github.com/lepinkainen/feedreader/pkg/page"
	"github.com/lepinkainen/feedreader/pkg/reader"
	"github.com/lepinkainen/feedreader/pkg/registry"
	"github.com/lepinkainen/feedreader/pkg/render"
)

const rssTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>%[1]s</title><link>https://example.com/</link><description>%[1]s</description>
<item><title>%[1]s first</title><link>https://example.com/%[1]s/1</link><description>one</description></item>
<item><title>%[1]s second</title><link>https://example.com/%[1]s/2</link><description>two</description></item>
</channel></rss>`

var urlPattern = regexp.MustCompile(`^(http|https)://`)

// newFeedServer serves a distinct two-item feed at /<name> for each name
func newFeedServer(t *testing.T, names ...string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	for _, name := range names {
		body := fmt.Sprintf(rssTemplate, name)
		mux.HandleFunc("/"+name, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(body))
		})
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newApp(t *testing.T, names ...string) *reader.App {
	t.Helper()

	server := newFeedServer(t, names...)

	feeds := make([]registry.FeedDescriptor, 0, len(names))
	for _, name := range names {
		feeds = append(feeds, registry.FeedDescriptor{Name: "Feed " + name, URL: server.URL + "/" + name})
	}

	reg, err := registry.New(feeds)
	if err != nil {
		t.Fatalf("registry.New() error: %v", err)
	}

	doc, err := page.NewHTMLDocument()
	if err != nil {
		t.Fatalf("page.NewHTMLDocument() error: %v", err)
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		t.Fatalf("render.NewRenderer() error: %v", err)
	}

	fetcher := fetch.NewFetcher(httputil.NewClient(&httputil.ClientConfig{Timeout: 2 * time.Second}))

	return reader.New(context.Background(), reader.Config{
		Registry: reg,
		Fetcher:  fetcher,
		Renderer: renderer,
		Document: doc,
	})
}

// loadFeed calls LoadFeed and blocks until its completion callback fires
func loadFeed(t *testing.T, app *reader.App, index int) loader.Result {
	t.Helper()

	done := make(chan loader.Result, 1)
	app.Loader.LoadFeed(index, func(r loader.Result) {
		done <- r
	})

	var result loader.Result
	NewWithT(t).Eventually(done).Should(Receive(&result))
	return result
}

func testRSSFeeds(t *testing.T, context spec.G, it spec.S) {
	var Expect = NewWithT(t).Expect

	context("the embedded registry", func() {
		var reg *registry.Registry

		it.Before(func() {
			var err error
			reg, err = registry.Default()
			Expect(err).NotTo(HaveOccurred())
		})

		it("is defined and not empty", func() {
			Expect(reg).NotTo(BeNil())
			Expect(reg.Len()).NotTo(BeZero())
		})

		it("has defined, non-empty URLs", func() {
			for _, feed := range reg.All() {
				Expect(feed.URL).NotTo(BeEmpty())
				Expect(feed.URL).To(MatchRegexp(urlPattern.String()))
			}
		})

		it("has defined, non-empty names", func() {
			for _, feed := range reg.All() {
				Expect(feed.Name).To(BeAssignableToTypeOf(""))
				Expect(feed.Name).NotTo(BeEmpty())
			}
		})
	})

	context("a registry with a bad descriptor", func() {
		it("is rejected", func() {
			_, err := registry.New([]registry.FeedDescriptor{{Name: "Feed", URL: "gopher://old.example"}})
			Expect(err).To(MatchError(registry.ErrInvalidURL))
		})
	})
}

func testMenu(t *testing.T, context spec.G, it spec.S) {
	var (
		Expect = NewWithT(t).Expect

		app *reader.App
	)

	it.Before(func() {
		app = newApp(t, "a", "b")
	})

	it("is hidden by default", func() {
		Expect(app.Menu.State()).To(Equal(menu.Hidden))
		Expect(app.Document.HasClass(menu.MarkerClass)).To(BeTrue())
	})

	it("changes visibility when the icon is clicked", func() {
		Expect(app.Document.HasClass(menu.MarkerClass)).To(BeTrue())

		Expect(app.ClickMenuIcon()).To(BeTrue())
		Expect(app.Menu.State()).To(Equal(menu.Visible))
		Expect(app.Document.HasClass(menu.MarkerClass)).To(BeFalse())

		Expect(app.ClickMenuIcon()).To(BeTrue())
		Expect(app.Menu.State()).To(Equal(menu.Hidden))
		Expect(app.Document.HasClass(menu.MarkerClass)).To(BeTrue())
	})
}

func testInitialEntries(t *testing.T, context spec.G, it spec.S) {
	var (
		Expect = NewWithT(t).Expect

		app    *reader.App
		result loader.Result
	)

	it.Before(func() {
		app = newApp(t, "a", "b")
		result = loadFeed(t, app, 0)
	})

	it("has at least one entry in the feed container", func() {
		Expect(result.Err).NotTo(HaveOccurred())
		Expect(len(app.Document.QueryEntries())).To(BeNumerically(">", 0))
	})

	it("shows the feed name in the header", func() {
		Expect(app.Document.Title()).To(Equal("Feed a"))
	})

	context("when Init is used", func() {
		it("loads the first feed", func() {
			res := app.Init().Result()
			Expect(res.Err).NotTo(HaveOccurred())
			Expect(res.Index).To(Equal(0))
			Expect(app.Document.QueryEntries()).To(ContainElement(ContainSubstring("a first")))
		})
	})
}

func testNewFeedSelection(t *testing.T, context spec.G, it spec.S) {
	var (
		Expect = NewWithT(t).Expect

		app      *reader.App
		previous string
	)

	it.Before(func() {
		app = newApp(t, "a", "b")

		Expect(loadFeed(t, app, 0).Err).NotTo(HaveOccurred())
		previous = app.Document.FeedHTML()
		Expect(loadFeed(t, app, 1).Err).NotTo(HaveOccurred())
	})

	it("changes content upon load", func() {
		Expect(app.Document.FeedHTML()).NotTo(Equal(previous))
		Expect(app.Document.Title()).To(Equal("Feed b"))
	})

	context("when the page is reloaded", func() {
		it("loads the selected feed again", func() {
			result := app.Reload().Result()
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Index).To(Equal(1))
			Expect(app.Document.Title()).To(Equal("Feed b"))
		})
	})

	context("when the index is beyond the registry", func() {
		it("fails fast and keeps the current content", func() {
			current := app.Document.FeedHTML()

			result := loadFeed(t, app, 2)
			Expect(result.Err).To(MatchError(registry.ErrIndexOutOfRange))
			Expect(app.Document.FeedHTML()).To(Equal(current))
		})
	})
}

func testFeedList(t *testing.T, context spec.G, it spec.S) {
	var (
		Expect = NewWithT(t).Expect

		app *reader.App
	)

	it.Before(func() {
		app = newApp(t, "a", "b")
	})

	it("lists every feed in the menu", func() {
		doc, ok := app.Document.(*page.HTMLDocument)
		Expect(ok).To(BeTrue())
		Expect(doc.FeedLinks()).To(Equal([]string{"Feed a", "Feed b"}))
	})

	context("when a feed link is clicked with the menu open", func() {
		it.Before(func() {
			app.ClickMenuIcon()
			Expect(app.Menu.Visible()).To(BeTrue())
		})

		it("loads that feed and hides the menu", func() {
			Expect(app.ClickFeedLink(1)).To(BeTrue())
			Expect(app.Menu.State()).To(Equal(menu.Hidden))

			NewWithT(t).Eventually(app.Document.Title).Should(Equal("Feed b"))
			Expect(app.Document.QueryEntries()).To(ContainElement(ContainSubstring("b first")))
		})
	})
}

func testSingleFeed(t *testing.T, context spec.G, it spec.S) {
	var (
		Expect = NewWithT(t).Expect

		app *reader.App
	)

	it.Before(func() {
		app = newApp(t, "only")
	})

	it("satisfies the registry and menu properties", func() {
		Expect(app.Registry.Len()).To(Equal(1))
		Expect(app.Registry.Validate()).To(Succeed())
		Expect(app.Menu.State()).To(Equal(menu.Hidden))
	})

	it("loads index 0", func() {
		Expect(loadFeed(t, app, 0).Err).NotTo(HaveOccurred())
		Expect(app.Document.QueryEntries()).NotTo(BeEmpty())
	})

	it("rejects index 1", func() {
		Expect(loadFeed(t, app, 1).Err).To(MatchError(registry.ErrIndexOutOfRange))
	})
}
