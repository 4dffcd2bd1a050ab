// Package loader loads a feed from the registry into the page's feed container.
//
// Loads are asynchronous. Each Load returns a Task whose Done channel is
// closed exactly once, after the page has been updated or the load has
// failed. Starting a new load cancels the one in flight; a canceled or
// superseded load never touches the page.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lepinkainen/feedreader/pkg/fetch"
	"github.com/lepinkainen/feedreader/pkg/page"
	"github.com/lepinkainen/feedreader/pkg/registry"
)

// Load errors
var (
	ErrFetch  = errors.New("feed fetch failed")
	ErrRender = errors.New("feed render failed")
)

// Fetcher downloads the entries of a feed
type Fetcher interface {
	Fetch(ctx context.Context, feed registry.FeedDescriptor) ([]fetch.Entry, error)
}

// Renderer turns entries into an HTML fragment
type Renderer interface {
	Render(feed registry.FeedDescriptor, entries []fetch.Entry) (string, error)
}

// Result is the outcome of one load
type Result struct {
	Index    int
	Feed     registry.FeedDescriptor
	Entries  []fetch.Entry
	Duration time.Duration
	Err      error
}

// Loader loads feeds into a page document
type Loader struct {
	registry *registry.Registry
	fetcher  Fetcher
	renderer Renderer
	doc      page.Document

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	current    *Result
}

// New creates a loader
func New(reg *registry.Registry, fetcher Fetcher, renderer Renderer, doc page.Document) *Loader {
	return &Loader{
		registry: reg,
		fetcher:  fetcher,
		renderer: renderer,
		doc:      doc,
	}
}

// Load starts loading the feed at index and returns immediately.
// An out-of-range index completes the task at once with
// registry.ErrIndexOutOfRange and leaves any in-flight load alone.
func (l *Loader) Load(ctx context.Context, index int) *Task {
	ctx, cancel := context.WithCancel(ctx)
	task := newTask(index, cancel)

	feed, err := l.registry.Get(index)
	if err != nil {
		slog.Warn("Refusing to load feed", "index", index, "error", err)
		cancel()
		task.finish(Result{Index: index, Err: err})
		return task
	}

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	gen := l.generation
	l.cancel = cancel
	l.mu.Unlock()

	go l.run(ctx, gen, index, feed, task)
	return task
}

// LoadFeed loads the feed at index and calls onComplete exactly once after
// the page has been updated or the load has failed
func (l *Loader) LoadFeed(index int, onComplete func(Result)) {
	task := l.Load(context.Background(), index)
	go func() {
		<-task.Done()
		if onComplete != nil {
			onComplete(task.Result())
		}
	}()
}

// Current returns the last load that was committed to the page
func (l *Loader) Current() (Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return Result{}, false
	}
	return *l.current, true
}

func (l *Loader) run(ctx context.Context, gen uint64, index int, feed registry.FeedDescriptor, task *Task) {
	start := time.Now()
	result := Result{Index: index, Feed: feed}

	defer func() {
		result.Duration = time.Since(start)
		l.release(gen)
		task.finish(result)
	}()

	entries, err := l.fetcher.Fetch(ctx, feed)
	if err != nil {
		if ctx.Err() != nil {
			result.Err = ctx.Err()
			slog.Debug("Feed load canceled", "feed", feed.Name, "index", index)
			return
		}
		result.Err = fmt.Errorf("%w: %s: %w", ErrFetch, feed.Name, err)
		slog.Error("Failed to load feed", "feed", feed.Name, "index", index, "error", err)
		return
	}

	fragment, err := l.renderer.Render(feed, entries)
	if err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrRender, feed.Name, err)
		slog.Error("Failed to render feed", "feed", feed.Name, "index", index, "error", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation || ctx.Err() != nil {
		result.Err = context.Canceled
		slog.Debug("Discarding superseded feed load", "feed", feed.Name, "index", index)
		return
	}

	if err := l.doc.ReplaceContent(fragment); err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrRender, feed.Name, err)
		slog.Error("Failed to update feed container", "feed", feed.Name, "error", err)
		return
	}
	l.doc.SetTitle(feed.Name)

	result.Entries = entries
	committed := result
	committed.Duration = time.Since(start)
	l.current = &committed

	slog.Info("Loaded feed", "feed", feed.Name, "index", index, "entries", len(entries))
}

// release drops the cancel func of a finished load if it is still the latest
func (l *Loader) release(gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen == l.generation && l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
