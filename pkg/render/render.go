// Package render turns feed entries into the HTML shown in the feed container.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"time"

	"github.com/lepinkainen/feedreader/pkg/fetch"
	"github.com/lepinkainen/feedreader/pkg/registry"
)

// EntryTemplate is the template used for feed entries
const EntryTemplate = "entry"

// TemplateData is passed to the entry template
type TemplateData struct {
	FeedName string
	FeedURL  string
	Entries  []TemplateEntry
}

// TemplateEntry is a single entry prepared for rendering
type TemplateEntry struct {
	Title     string
	Link      string
	Author    string
	Snippet   string
	Published string // RFC3339, empty when unknown
	Date      string // human readable, empty when unknown
}

// Renderer renders entries with a named template
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer loads the entry template, preferring the override filesystem
// over the embedded copy
func NewRenderer() (*Renderer, error) {
	tmpl, err := loadTemplate(EntryTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// NewRendererFromString parses text as the entry template
func NewRendererFromString(text string) (*Renderer, error) {
	tmpl, err := template.New(EntryTemplate).Funcs(TemplateFuncs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", EntryTemplate, err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func loadTemplate(name string) (*template.Template, error) {
	file := name + ".tmpl"

	content, err := fs.ReadFile(templateOverrideFS, file)
	if err == nil {
		slog.Debug("Using template override", "name", name)
	} else {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Failed to read template override, using embedded", "name", name, "error", err)
		}
		content, err = fs.ReadFile(templateFallbackFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", file, err)
		}
	}

	tmpl, err := template.New(name).Funcs(TemplateFuncs()).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
	}
	return tmpl, nil
}

// Render returns the HTML fragment for entries of feed
func (r *Renderer) Render(feed registry.FeedDescriptor, entries []fetch.Entry) (string, error) {
	data := TemplateData{
		FeedName: feed.Name,
		FeedURL:  feed.URL,
		Entries:  make([]TemplateEntry, 0, len(entries)),
	}

	for _, e := range entries {
		te := TemplateEntry{
			Title:   e.Title,
			Link:    e.Link,
			Author:  e.Author,
			Snippet: e.Snippet,
		}
		if !e.Published.IsZero() {
			te.Published = formatTime(e.Published)
			te.Date = e.Published.Format("Jan 2, 2006")
		}
		data.Entries = append(data.Entries, te)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", r.tmpl.Name(), err)
	}

	slog.Debug("Rendered feed", "feed", feed.Name, "entries", len(entries))
	return buf.String(), nil
}

// TemplateFuncs returns the helper functions available to templates
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate":   fetch.Truncate,
		"formatTime": formatTime,
	}
}

// formatTime formats time in RFC3339
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
