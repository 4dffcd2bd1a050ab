// Package fetch downloads feeds and converts their items to entries.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	httputil "github.com/lepinkainen/feedreader/pkg/http"
	"github.com/lepinkainen/feedreader/pkg/registry"
)

// SnippetLength is the maximum length of an entry snippet
const SnippetLength = 200

// ErrParse is returned when a response body is not a readable feed
var ErrParse = errors.New("failed to parse feed")

// Entry is one item of a loaded feed
type Entry struct {
	Title     string
	Link      string
	Author    string
	Snippet   string
	Content   string
	Published time.Time
}

// Fetcher fetches and parses feeds over HTTP
type Fetcher struct {
	client *httputil.Client
}

// NewFetcher creates a fetcher. A nil client uses the default configuration.
func NewFetcher(client *httputil.Client) *Fetcher {
	if client == nil {
		client = httputil.NewClient(nil)
	}
	return &Fetcher{client: client}
}

// Fetch downloads feed and returns its entries in document order
func (f *Fetcher) Fetch(ctx context.Context, feed registry.FeedDescriptor) ([]Entry, error) {
	slog.Debug("Fetching feed", "name", feed.Name, "url", feed.URL)

	resp, err := f.client.WithToken(feed.Token).GetWithContext(ctx, feed.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", feed.URL, err)
	}
	defer httputil.CloseBody(resp)

	if err := httputil.EnsureStatusOK(resp); err != nil {
		return nil, err
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrParse, feed.URL, err)
	}

	entries := convertItems(parsed.Items)
	slog.Debug("Fetched feed", "name", feed.Name, "entries", len(entries), "type", parsed.FeedType)
	return entries, nil
}

func convertItems(items []*gofeed.Item) []Entry {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		entry := Entry{
			Title:     item.Title,
			Link:      item.Link,
			Content:   item.Content,
			Published: publishedAt(item),
		}

		if len(item.Authors) > 0 && item.Authors[0] != nil {
			entry.Author = item.Authors[0].Name
		}

		source := item.Description
		if source == "" {
			source = item.Content
		}
		entry.Snippet = Truncate(PlainText(source), SnippetLength)

		entries = append(entries, entry)
	}
	return entries
}

// publishedAt prefers gofeed's parsed dates and falls back to dateparse for
// formats gofeed does not recognise
func publishedAt(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}

	for _, raw := range []string{item.Published, item.Updated} {
		if raw == "" {
			continue
		}
		t, err := dateparse.ParseIn(raw, time.UTC)
		if err == nil {
			return t
		}
		slog.Debug("Unparseable entry date", "title", item.Title, "date", raw, "error", err)
	}
	return time.Time{}
}
