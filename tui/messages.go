package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/docscrawl/crawler"
	"github.com/lukemcguire/docscrawl/result"
)

// CrawlMessageMsg carries one narration line from the crawl stream.
type CrawlMessageMsg struct {
	Text string
}

// PageFetchedMsg reports a page yielded by the crawl.
type PageFetchedMsg struct {
	Page *result.PageResult
}

// CrawlDoneMsg signals the crawl has completed.
type CrawlDoneMsg struct {
	Result *result.Result
	Err    error
}

// waitForEvent returns a tea.Cmd that reads one event from the stream
// channel. A closed channel yields no message; completion is reported by
// whoever owns the crawl through CrawlDoneMsg.
func waitForEvent(ch <-chan crawler.StreamEvent) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		if evt.Kind == crawler.EventResult {
			return PageFetchedMsg{Page: evt.Page}
		}
		return CrawlMessageMsg{Text: evt.Text}
	}
}
