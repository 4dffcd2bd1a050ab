// Package page models the reader's page: a feed container, a header title,
// a slide-out menu and body-level classes.
package page

import "errors"

// Selectors and class names shared by the page skeleton and its users
const (
	FeedSelector     = ".feed"
	MenuIconSelector = ".menu-icon-link"
	EntryClass       = "entry"
	FeedLinkClass    = "feed-link"
)

// ErrMissingElement is returned when a page skeleton lacks a required element
var ErrMissingElement = errors.New("page is missing required element")

// Document is the surface the reader renders into
type Document interface {
	// ReplaceContent swaps every child of the feed container for the parsed fragment.
	ReplaceContent(fragment string) error
	// QueryEntries returns the text of each entry element in the feed container.
	QueryEntries() []string
	// FeedHTML returns the inner HTML of the feed container.
	FeedHTML() string

	ToggleClass(class string, on bool)
	HasClass(class string) bool

	SetTitle(title string)
	Title() string

	// SetFeedList replaces the links in the menu's feed list.
	SetFeedList(names []string)

	// OnClick registers fn to run when an element matching selector is clicked.
	OnClick(selector string, fn func())
	// Click activates the first element matching selector. It reports
	// whether the element exists.
	Click(selector string) bool
}
