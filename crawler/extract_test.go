package crawler

import (
	"net/url"
	"testing"
)

func TestExtractPageLinks(t *testing.T) {
	baseURL, _ := url.Parse("https://example.com/docs/guide")

	tests := []struct {
		name     string
		html     string
		expected []string
	}{
		{
			name:     "absolute link",
			html:     `<a href="https://example.com/page">Link</a>`,
			expected: []string{"https://example.com/page"},
		},
		{
			name:     "root relative link",
			html:     `<a href="/about">About</a>`,
			expected: []string{"https://example.com/about"},
		},
		{
			name:     "document relative link",
			html:     `<a href="intro">Intro</a><a href="../api/">API</a>`,
			expected: []string{"https://example.com/docs/intro", "https://example.com/api/"},
		},
		{
			name:     "protocol relative link",
			html:     `<a href="//example.com/cdn">CDN</a>`,
			expected: []string{"https://example.com/cdn"},
		},
		{
			name:     "drops other hosts",
			html:     `<a href="https://other.com/page">Other</a><a href="https://docs.example.com/page">Sub</a>`,
			expected: []string{},
		},
		{
			name:     "keeps same hostname on another port",
			html:     `<a href="http://example.com:8080/alt">Alt</a>`,
			expected: []string{"http://example.com:8080/alt"},
		},
		{
			name:     "drops non http schemes",
			html:     `<a href="mailto:user@example.com">Email</a><a href="javascript:void(0)">JS</a><a href="ftp://example.com/f">FTP</a>`,
			expected: []string{},
		},
		{
			name:     "strips fragments and deduplicates",
			html:     `<a href="/page#top">Top</a><a href="/page#bottom">Bottom</a><a href="/page">Page</a>`,
			expected: []string{"https://example.com/page"},
		},
		{
			name:     "fragment only link resolves to current page",
			html:     `<a href="#section">Section</a>`,
			expected: []string{"https://example.com/docs/guide"},
		},
		{
			name:     "keeps query strings",
			html:     `<a href="/search?q=go">Search</a>`,
			expected: []string{"https://example.com/search?q=go"},
		},
		{
			name:     "broken href does not affect others",
			html:     `<a href="http://[::1">Broken</a><a href="/ok">OK</a>`,
			expected: []string{"https://example.com/ok"},
		},
		{
			name:     "anchors without href are ignored",
			html:     `<a name="x">Anchor</a><a href="/ok">OK</a>`,
			expected: []string{"https://example.com/ok"},
		},
		{
			name:     "trims whitespace in href",
			html:     `<a href="  /spaced  ">Spaced</a>`,
			expected: []string{"https://example.com/spaced"},
		},
		{
			name:     "no links",
			html:     `<html><body><p>Nothing</p></body></html>`,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, links, err := ExtractPage(tt.html, baseURL, "example.com")
			if err != nil {
				t.Fatalf("ExtractPage() error: %v", err)
			}

			if len(links) != len(tt.expected) {
				t.Fatalf("got %d links %v, want %d %v", len(links), links, len(tt.expected), tt.expected)
			}
			for i, want := range tt.expected {
				if links[i].String() != want {
					t.Errorf("links[%d] = %q, want %q", i, links[i], want)
				}
				if links[i].Fragment != "" {
					t.Errorf("links[%d] kept fragment %q", i, links[i].Fragment)
				}
			}
		})
	}
}

func TestExtractPageTitle(t *testing.T) {
	baseURL, _ := url.Parse("https://example.com/")

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "prefers h1 over title",
			html: `<html><head><title>Site</title></head><body><h1>Heading</h1></body></html>`,
			want: "Heading",
		},
		{
			name: "first h1 wins",
			html: `<body><h1>First</h1><h1>Second</h1></body>`,
			want: "First",
		},
		{
			name: "falls back to title",
			html: `<html><head><title>Only Title</title></head><body><h2>Sub</h2></body></html>`,
			want: "Only Title",
		},
		{
			name: "h1 text includes nested elements",
			html: `<h1>Hello <em>world</em></h1>`,
			want: "Hello world",
		},
		{
			name: "keeps surrounding whitespace",
			html: "<h1>\n   Spaced Out  \n</h1>",
			want: "\n   Spaced Out  \n",
		},
		{
			name: "empty h1 still wins over title",
			html: "<html><head><title>Site</title></head><body><h1></h1></body></html>",
			want: "",
		},
		{
			name: "unnamed when neither exists",
			html: `<html><body><p>text</p></body></html>`,
			want: "unnamed",
		},
		{
			name: "empty document",
			html: "",
			want: "unnamed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, _, err := ExtractPage(tt.html, baseURL, "example.com")
			if err != nil {
				t.Fatalf("ExtractPage() error: %v", err)
			}
			if title != tt.want {
				t.Errorf("title = %q, want %q", title, tt.want)
			}
		})
	}
}
