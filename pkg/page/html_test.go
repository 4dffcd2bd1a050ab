package page

import (
	"errors"
	"strings"
	"testing"
)

func newTestDocument(t *testing.T) *HTMLDocument {
	t.Helper()

	doc, err := NewHTMLDocument()
	if err != nil {
		t.Fatalf("NewHTMLDocument() error: %v", err)
	}
	return doc
}

func TestNewHTMLDocument_Skeleton(t *testing.T) {
	doc := newTestDocument(t)

	if !doc.HasClass("menu-hidden") {
		t.Error("skeleton body should carry menu-hidden")
	}
	if got := doc.Title(); got != "Feeds" {
		t.Errorf("Title() = %q, want %q", got, "Feeds")
	}
	if got := doc.QueryEntries(); len(got) != 0 {
		t.Errorf("QueryEntries() on empty feed = %v", got)
	}
	if got := doc.FeedHTML(); got != "" {
		t.Errorf("FeedHTML() on empty feed = %q", got)
	}
}

func TestParseDocument_MissingElements(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{
			name: "no feed container",
			page: `<html><body><h1 class="header-title"></h1><ul class="feed-list"></ul></body></html>`,
		},
		{
			name: "no header title",
			page: `<html><body><div class="feed"></div><ul class="feed-list"></ul></body></html>`,
		},
		{
			name: "no feed list",
			page: `<html><body><div class="feed"></div><h1 class="header-title"></h1></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument(strings.NewReader(tt.page))
			if !errors.Is(err, ErrMissingElement) {
				t.Errorf("ParseDocument() error = %v, want ErrMissingElement", err)
			}
		})
	}
}

func TestHTMLDocument_ReplaceContent(t *testing.T) {
	doc := newTestDocument(t)

	first := `<article class="entry"><h2>One</h2></article><article class="entry"><h2>Two</h2></article>`
	if err := doc.ReplaceContent(first); err != nil {
		t.Fatalf("ReplaceContent() error: %v", err)
	}

	entries := doc.QueryEntries()
	if len(entries) != 2 || entries[0] != "One" || entries[1] != "Two" {
		t.Fatalf("QueryEntries() = %v, want [One Two]", entries)
	}

	second := `<a class="entry-link" href="https://x.example/"><article class="entry"><h2>Three</h2><p>body   text</p></article></a>`
	if err := doc.ReplaceContent(second); err != nil {
		t.Fatalf("ReplaceContent() error: %v", err)
	}

	entries = doc.QueryEntries()
	if len(entries) != 1 || entries[0] != "Three body text" {
		t.Errorf("QueryEntries() after replace = %v", entries)
	}

	if got := doc.FeedHTML(); strings.Contains(got, "One") {
		t.Errorf("FeedHTML() still contains previous content: %s", got)
	}
}

func TestHTMLDocument_ToggleClass(t *testing.T) {
	doc := newTestDocument(t)

	doc.ToggleClass("menu-hidden", false)
	if doc.HasClass("menu-hidden") {
		t.Error("class should be removed")
	}

	doc.ToggleClass("menu-hidden", false)
	if doc.HasClass("menu-hidden") {
		t.Error("removing an absent class should be a no-op")
	}

	doc.ToggleClass("menu-hidden", true)
	doc.ToggleClass("menu-hidden", true)
	if !doc.HasClass("menu-hidden") {
		t.Error("class should be present")
	}

	page, err := doc.Render()
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if strings.Count(page, "menu-hidden") != 1 {
		t.Errorf("class duplicated in page: %s", page)
	}
}

func TestHTMLDocument_FeedList(t *testing.T) {
	doc := newTestDocument(t)

	doc.SetFeedList([]string{"Feed A", "Feed <B>"})
	links := doc.FeedLinks()
	if len(links) != 2 || links[1] != "Feed <B>" {
		t.Fatalf("FeedLinks() = %v", links)
	}

	page, err := doc.Render()
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(page, `id="feed-1"`) || !strings.Contains(page, "Feed &lt;B&gt;") {
		t.Errorf("feed list not rendered as expected: %s", page)
	}

	doc.SetFeedList([]string{"Only"})
	if got := doc.FeedLinks(); len(got) != 1 {
		t.Errorf("SetFeedList() should replace links, got %v", got)
	}
}

func TestHTMLDocument_Click(t *testing.T) {
	doc := newTestDocument(t)

	clicks := 0
	doc.OnClick(MenuIconSelector, func() {
		clicks++
		doc.ToggleClass("clicked", true)
	})

	if !doc.Click(MenuIconSelector) {
		t.Fatal("Click() on menu icon returned false")
	}
	if clicks != 1 || !doc.HasClass("clicked") {
		t.Errorf("handler not run: clicks=%d", clicks)
	}

	if doc.Click(".does-not-exist") {
		t.Error("Click() on missing element should return false")
	}

	doc.SetFeedList([]string{"Feed A"})
	selected := false
	doc.OnClick("#"+FeedLinkID(0), func() { selected = true })
	if !doc.Click("#"+FeedLinkID(0)) || !selected {
		t.Error("feed link click handler not run")
	}
}

func TestHTMLDocument_Title(t *testing.T) {
	doc := newTestDocument(t)

	doc.SetTitle("CSS Tricks")
	if got := doc.Title(); got != "CSS Tricks" {
		t.Errorf("Title() = %q, want %q", got, "CSS Tricks")
	}
}
