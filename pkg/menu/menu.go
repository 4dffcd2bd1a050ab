// Package menu implements the slide-out navigation menu's visibility state.
//
// The State value is the source of truth. The body marker class is only a
// projection of it onto the page: class present means Hidden.
package menu

import (
	"log/slog"
	"sync"

	"github.com/lepinkainen/feedreader/pkg/page"
)

// MarkerClass is the body class present while the menu is hidden
const MarkerClass = "menu-hidden"

// State is the menu's visibility
type State int

// Menu states
const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	default:
		return "unknown"
	}
}

// Controller owns the menu state and keeps the page in sync with it
type Controller struct {
	mu    sync.Mutex
	state State
	doc   page.Document
}

// New returns a controller in the Hidden state and projects that state onto doc
func New(doc page.Document) *Controller {
	c := &Controller{state: Hidden, doc: doc}
	c.project()
	return c
}

// Toggle flips the menu between Hidden and Visible and returns the new state
func (c *Controller) Toggle() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Hidden {
		c.state = Visible
	} else {
		c.state = Hidden
	}
	c.project()

	slog.Debug("Menu toggled", "state", c.state)
	return c.state
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Visible reports whether the menu is shown
func (c *Controller) Visible() bool {
	return c.State() == Visible
}

func (c *Controller) project() {
	c.doc.ToggleClass(MarkerClass, c.state == Hidden)
}
