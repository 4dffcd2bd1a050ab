package page

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lepinkainen/feedreader/templates"
)

const skeletonFile = "index.html"

// HTMLDocument is an in-memory HTML page backed by golang.org/x/net/html
type HTMLDocument struct {
	mu       sync.Mutex
	root     *html.Node
	body     *html.Node
	feed     *html.Node
	title    *html.Node
	feedList *html.Node

	handlersMu sync.RWMutex
	handlers   map[string][]func()
}

// Ensure HTMLDocument implements Document
var _ Document = (*HTMLDocument)(nil)

// NewHTMLDocument creates a document from the embedded page skeleton
func NewHTMLDocument() (*HTMLDocument, error) {
	f, err := templates.EmbeddedTemplates.Open(skeletonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open page skeleton: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("Failed to close page skeleton", "error", closeErr)
		}
	}()

	return ParseDocument(f)
}

// ParseDocument parses a page. The page must contain a body, a .feed
// container, a .header-title and a .feed-list element.
func ParseDocument(r io.Reader) (*HTMLDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	d := &HTMLDocument{
		root:     root,
		body:     findFirst(root, func(n *html.Node) bool { return n.Type == html.ElementNode && n.DataAtom == atom.Body }),
		feed:     findFirst(root, matchSelector(FeedSelector)),
		title:    findFirst(root, matchSelector(".header-title")),
		feedList: findFirst(root, matchSelector(".feed-list")),
		handlers: make(map[string][]func()),
	}

	switch {
	case d.body == nil:
		return nil, fmt.Errorf("%w: body", ErrMissingElement)
	case d.feed == nil:
		return nil, fmt.Errorf("%w: %s", ErrMissingElement, FeedSelector)
	case d.title == nil:
		return nil, fmt.Errorf("%w: .header-title", ErrMissingElement)
	case d.feedList == nil:
		return nil, fmt.Errorf("%w: .feed-list", ErrMissingElement)
	}

	return d, nil
}

// ReplaceContent implements Document
func (d *HTMLDocument) ReplaceContent(fragment string) error {
	parent := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
	if err != nil {
		return fmt.Errorf("failed to parse feed content: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	removeChildren(d.feed)
	for _, n := range nodes {
		d.feed.AppendChild(n)
	}
	return nil
}

// QueryEntries implements Document
func (d *HTMLDocument) QueryEntries() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var entries []string
	walk(d.feed, func(n *html.Node) bool {
		if n != d.feed && hasClass(n, EntryClass) {
			entries = append(entries, textContent(n))
			return false
		}
		return true
	})
	return entries
}

// FeedHTML implements Document
func (d *HTMLDocument) FeedHTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	for c := d.feed.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			slog.Error("Failed to render feed node", "error", err)
		}
	}
	return buf.String()
}

// ToggleClass implements Document
func (d *HTMLDocument) ToggleClass(class string, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	setClass(d.body, class, on)
}

// HasClass implements Document
func (d *HTMLDocument) HasClass(class string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return hasClass(d.body, class)
}

// SetTitle implements Document
func (d *HTMLDocument) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	removeChildren(d.title)
	d.title.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}

// Title implements Document
func (d *HTMLDocument) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return textContent(d.title)
}

// SetFeedList implements Document. Link i gets id "feed-<i>".
func (d *HTMLDocument) SetFeedList(names []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	removeChildren(d.feedList)
	for i, name := range names {
		link := &html.Node{
			Type:     html.ElementNode,
			Data:     "a",
			DataAtom: atom.A,
			Attr: []html.Attribute{
				{Key: "href", Val: "#"},
				{Key: "id", Val: FeedLinkID(i)},
				{Key: "class", Val: FeedLinkClass},
				{Key: "data-id", Val: strconv.Itoa(i)},
			},
		}
		link.AppendChild(&html.Node{Type: html.TextNode, Data: name})

		li := &html.Node{Type: html.ElementNode, Data: "li", DataAtom: atom.Li}
		li.AppendChild(link)
		d.feedList.AppendChild(li)
	}
}

// FeedLinks returns the text of each link in the menu's feed list
func (d *HTMLDocument) FeedLinks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var links []string
	walk(d.feedList, func(n *html.Node) bool {
		if hasClass(n, FeedLinkClass) {
			links = append(links, textContent(n))
			return false
		}
		return true
	})
	return links
}

// OnClick implements Document
func (d *HTMLDocument) OnClick(selector string, fn func()) {
	d.handlersMu.Lock()
	defer d.handlersMu.Unlock()

	d.handlers[selector] = append(d.handlers[selector], fn)
}

// Click implements Document. Handlers run without the document lock held
// so they may mutate the page.
func (d *HTMLDocument) Click(selector string) bool {
	d.mu.Lock()
	target := findFirst(d.root, matchSelector(selector))
	d.mu.Unlock()

	if target == nil {
		slog.Debug("Click on missing element", "selector", selector)
		return false
	}

	d.handlersMu.RLock()
	fns := append([]func(){}, d.handlers[selector]...)
	d.handlersMu.RUnlock()

	for _, fn := range fns {
		fn()
	}
	return true
}

// Render serializes the whole page
func (d *HTMLDocument) Render() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}

// FeedLinkID returns the element id of the i-th feed-list link
func FeedLinkID(i int) string {
	return "feed-" + strconv.Itoa(i)
}
