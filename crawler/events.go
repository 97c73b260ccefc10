package crawler

import (
	"encoding/json"

	"github.com/lukemcguire/docscrawl/result"
)

// EventKind tags a StreamEvent.
type EventKind string

const (
	// EventMessage carries human-readable narration.
	EventMessage EventKind = "message"
	// EventResult carries one fetched page.
	EventResult EventKind = "result"
)

// StreamEvent is one item of the crawl stream: either a Message with Text
// set, or a Result with Page set.
type StreamEvent struct {
	Kind EventKind
	Text string
	Page *result.PageResult
}

// MessageEvent builds a narration event.
func MessageEvent(text string) StreamEvent {
	return StreamEvent{Kind: EventMessage, Text: text}
}

// ResultEvent builds a page event.
func ResultEvent(page *result.PageResult) StreamEvent {
	return StreamEvent{Kind: EventResult, Page: page}
}

// MarshalJSON renders the event in the flat shape transports relay,
// {"kind":"message","text":...} or {"kind":"result","url":...,"title":...,"html":...}.
func (e StreamEvent) MarshalJSON() ([]byte, error) {
	if e.Kind == EventResult && e.Page != nil {
		var pageURL string
		if e.Page.URL != nil {
			pageURL = e.Page.URL.String()
		}
		return json.Marshal(struct {
			Kind  EventKind `json:"kind"`
			URL   string    `json:"url"`
			Title string    `json:"title"`
			HTML  string    `json:"html"`
		}{EventResult, pageURL, e.Page.Title, e.Page.HTML})
	}
	return json.Marshal(struct {
		Kind EventKind `json:"kind"`
		Text string    `json:"text"`
	}{EventMessage, e.Text})
}
