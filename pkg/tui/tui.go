package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/feedreader/pkg/loader"
	"github.com/lepinkainen/feedreader/pkg/reader"
)

// ViewMode represents the current view mode
type ViewMode int

// View modes for the reader TUI
const (
	ListViewMode ViewMode = iota
	DetailViewMode
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")).Bold(true)
	menuStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// loadedMsg carries the outcome of a finished load
type loadedMsg struct {
	task   *loader.Task
	result loader.Result
}

// Model represents the Bubble Tea model for the reader TUI
type Model struct {
	app  *reader.App
	task *loader.Task

	result loader.Result
	loaded bool
	err    error

	menuCursor    int
	entryCursor   int
	selectedIndex int
	viewMode      ViewMode
	width         int
	height        int

	now func() time.Time
}

// NewModel creates a reader model. task is the load already started for
// the first page, and may be nil.
func NewModel(app *reader.App, task *loader.Task) Model {
	return Model{
		app:           app,
		task:          task,
		viewMode:      ListViewMode,
		selectedIndex: -1,
		now:           time.Now,
	}
}

// waitForTask blocks in a command until task completes
func waitForTask(task *loader.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	return func() tea.Msg {
		return loadedMsg{task: task, result: task.Result()}
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return waitForTask(m.task)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		return m.handleLoaded(msg), nil

	case tea.KeyMsg:
		switch m.viewMode {
		case ListViewMode:
			return m.updateListView(msg)
		case DetailViewMode:
			return m.updateDetailView(msg)
		}
	}

	return m, nil
}

func (m Model) handleLoaded(msg loadedMsg) Model {
	// A load that was replaced by a newer one has nothing to show
	if msg.task != m.task {
		return m
	}

	if msg.result.Err != nil {
		if !errors.Is(msg.result.Err, context.Canceled) {
			m.err = msg.result.Err
		}
		return m
	}

	m.result = msg.result
	m.loaded = true
	m.err = nil
	m.entryCursor = 0
	return m
}

// startLoad makes task the one the model waits for
func (m Model) startLoad(task *loader.Task) (tea.Model, tea.Cmd) {
	m.task = task
	return m, waitForTask(task)
}

// updateListView handles key presses in list view mode
func (m Model) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	menuOpen := m.app.Menu.Visible()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "m":
		m.app.ClickMenuIcon()

	case "r":
		return m.startLoad(m.app.Reload())

	case "up", "k":
		if menuOpen {
			if m.menuCursor > 0 {
				m.menuCursor--
			}
		} else if m.entryCursor > 0 {
			m.entryCursor--
		}

	case "down", "j":
		if menuOpen {
			if m.menuCursor < m.app.Registry.Len()-1 {
				m.menuCursor++
			}
		} else if m.entryCursor < len(m.result.Entries)-1 {
			m.entryCursor++
		}

	case "enter":
		if menuOpen {
			return m.startLoad(m.app.SelectFeed(m.menuCursor))
		}
		if len(m.result.Entries) > 0 {
			m.selectedIndex = m.entryCursor
			m.viewMode = DetailViewMode
		}
	}

	return m, nil
}

// updateDetailView handles key presses in detail view mode
func (m Model) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.viewMode = ListViewMode
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	switch m.viewMode {
	case ListViewMode:
		return m.renderListView()
	case DetailViewMode:
		return m.renderDetailView()
	}
	return ""
}

func (m Model) loading() bool {
	if m.task == nil {
		return false
	}
	select {
	case <-m.task.Done():
		return false
	default:
		return true
	}
}

// renderListView renders the header, the menu when open, and the entry list
func (m Model) renderListView() string {
	var b strings.Builder

	header := m.app.Document.Title()
	if m.loaded {
		header = fmt.Sprintf("%s (%d entries)", header, len(m.result.Entries))
	}
	if m.loading() {
		header += " - loading..."
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	if m.app.Menu.Visible() {
		b.WriteString(m.renderMenu())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	entries := m.result.Entries
	visibleStart, visibleEnd := 0, len(entries)

	if m.height > 0 {
		maxVisible := m.height - 6
		if maxVisible > 0 && maxVisible < len(entries) {
			visibleStart = max(m.entryCursor-maxVisible/2, 0)
			visibleEnd = visibleStart + maxVisible
			if visibleEnd > len(entries) {
				visibleEnd = len(entries)
				visibleStart = max(visibleEnd-maxVisible, 0)
			}
		}
	}

	for i := visibleStart; i < visibleEnd; i++ {
		line := formatEntryLine(i, entries[i])
		if i == m.entryCursor && !m.app.Menu.Visible() {
			b.WriteString(selectedStyle.Render("→ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footer := "m: menu • ↑/↓ or j/k: navigate • enter: open • r: reload • q: quit"
	b.WriteString(footerStyle.Render(footer))

	return b.String()
}

func (m Model) renderMenu() string {
	var b strings.Builder
	for i, name := range m.app.Registry.Names() {
		if i > 0 {
			b.WriteString("\n")
		}
		if i == m.menuCursor {
			b.WriteString(selectedStyle.Render("→ " + name))
		} else {
			b.WriteString("  " + name)
		}
	}
	return menuStyle.Render(b.String())
}

// renderDetailView renders a single entry
func (m Model) renderDetailView() string {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.result.Entries) {
		return "No entry selected"
	}

	var b strings.Builder
	b.WriteString(formatEntryDetail(m.result.Entries[m.selectedIndex], m.now()))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("esc: back to list • q: quit"))

	return b.String()
}

// Run loads the first feed and starts the Bubble Tea program
func Run(app *reader.App) error {
	p := tea.NewProgram(NewModel(app, app.Init()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
