// Package tui provides the Bubble Tea terminal UI for docscrawl,
// displaying live crawl progress and a styled summary of the fetched pages.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukemcguire/docscrawl/crawler"
	"github.com/lukemcguire/docscrawl/result"
)

// Model is the Bubble Tea model for the crawl TUI.
type Model struct {
	cancel  context.CancelFunc
	spinner spinner.Model
	events  <-chan crawler.StreamEvent

	pages     int
	current   string
	lastTitle string
	quitting  bool
	done      bool
	result    *result.Result
	err       error
	width     int
}

// NewModel creates a TUI model that renders events as they arrive.
// cancel stops the crawl when the user quits.
func NewModel(cancel context.CancelFunc, events <-chan crawler.StreamEvent) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		cancel:  cancel,
		spinner: spin,
		events:  events,
	}
}

// Init starts the spinner and the stream listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case CrawlMessageMsg:
		m.current = msg.Text
		return m, waitForEvent(m.events)

	case PageFetchedMsg:
		m.pages++
		if msg.Page != nil {
			m.lastTitle = msg.Page.Title
		}
		return m, waitForEvent(m.events)

	case CrawlDoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.done {
		return RenderSummary(m.result, m.width)
	}
	if m.quitting {
		return dimStyle.Render("Stopping crawl...") + "\n"
	}

	status := fmt.Sprintf("%s Crawling... %d pages", m.spinner.View(), m.pages)
	if m.lastTitle != "" {
		status += dimStyle.Render(" (last: " + m.lastTitle + ")")
	}
	return status + "\n" + dimStyle.Render("  "+m.current) + "\n"
}

// Interrupted reports whether the user quit before the crawl finished.
func (m Model) Interrupted() bool {
	return m.quitting && !m.done
}
