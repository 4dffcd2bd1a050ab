// Package tui provides an interactive terminal feed reader using Bubble Tea.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/lepinkainen/feedreader/pkg/fetch"
)

const (
	maxTitleLength = 70
	wrapWidth      = 70
	ruler          = "═══════════════════════════════════════════════════════════════════════\n"
)

// wrapText wraps text to the specified width, breaking at word boundaries when possible
func wrapText(text string, width int) string {
	if width <= 0 {
		width = wrapWidth
	}

	var result strings.Builder
	var line strings.Builder
	lineLen := 0

	words := strings.Fields(text)
	for i, word := range words {
		wordLen := len([]rune(word))

		if lineLen > 0 && lineLen+1+wordLen > width {
			result.WriteString(line.String())
			result.WriteString("\n")
			line.Reset()
			lineLen = 0
		}

		if lineLen > 0 {
			line.WriteString(" ")
			lineLen++
		}

		line.WriteString(word)
		lineLen += wordLen

		if i == len(words)-1 {
			result.WriteString(line.String())
		}
	}

	return result.String()
}

// formatEntryLine formats an entry for the entry list
// Example: " 1. 2024-01-15  Post Title"
func formatEntryLine(index int, entry fetch.Entry) string {
	date := "          "
	if !entry.Published.IsZero() {
		date = entry.Published.Format("2006-01-02")
	}
	return fmt.Sprintf("%2d. %s  %s", index+1, date, fetch.Truncate(entry.Title, maxTitleLength))
}

// formatEntryDetail formats a single entry with all its metadata
func formatEntryDetail(entry fetch.Entry, now time.Time) string {
	var b strings.Builder

	b.WriteString(ruler)
	b.WriteString(fmt.Sprintf("Title: %s\n", entry.Title))
	b.WriteString(fmt.Sprintf("Link: %s\n", entry.Link))

	if entry.Author != "" {
		b.WriteString(fmt.Sprintf("Author: %s\n", entry.Author))
	}

	if !entry.Published.IsZero() {
		b.WriteString(fmt.Sprintf("Published: %s\n", formatTimeAgo(entry.Published, now)))
	}

	body := entry.Snippet
	if entry.Content != "" {
		body = fetch.Truncate(fetch.PlainText(entry.Content), 1000)
	}
	if body != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", wrapText(body, wrapWidth)))
	}

	b.WriteString(ruler)

	return b.String()
}

// formatTimeAgo formats t relative to now as a human-readable "X ago" string
func formatTimeAgo(t, now time.Time) string {
	duration := now.Sub(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}
