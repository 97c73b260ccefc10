package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/lukemcguire/docscrawl/result"
)

const (
	// expectedContentType is the only Content-Type accepted without sniffing.
	expectedContentType = "text/html"

	doctypePrefix = "<!doctype html>"
	htmlPrefix    = "<html"
)

// Spider fetches a single page and extracts its title and same-host links.
// It makes exactly one request per Fetch; there is no retry.
type Spider struct {
	client      *http.Client
	host        string
	userAgent   string
	maxBodySize int64
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithSpiderUserAgent sets the User-Agent header sent with page requests.
func WithSpiderUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		s.userAgent = ua
	}
}

// WithSpiderMaxBodySize sets the maximum number of body bytes read per page.
func WithSpiderMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		s.maxBodySize = size
	}
}

// NewSpider creates a Spider that keeps only links served by origin's host.
func NewSpider(client *http.Client, origin *url.URL, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:      client,
		host:        origin.Hostname(),
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads target and parses it into a PageResult.
// It fails with *FetchError on transport errors or non-2xx statuses and
// with ErrNotHTML when a body that is not labelled text/html does not look
// like an HTML document.
func (s *Spider) Fetch(ctx context.Context, target *url.URL) (*result.PageResult, error) {
	body, finalURL, err := s.fetchHTML(ctx, target)
	if err != nil {
		return nil, err
	}

	title, links, err := ExtractPage(body, finalURL, s.host)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", target, err)
	}

	return &result.PageResult{
		URL:   target,
		Links: links,
		Title: title,
		HTML:  body,
	}, nil
}

// fetchHTML returns the decoded body and the URL it was finally served from.
func (s *Spider) fetchHTML(ctx context.Context, target *url.URL) (string, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", nil, &FetchError{URL: target.String(), Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", nil, &FetchError{URL: target.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil, &FetchError{URL: target.String(), StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	raw, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return "", nil, &FetchError{URL: target.String(), Err: fmt.Errorf("read body: %w", err)}
	}

	body := decodeBody(raw, contentType)
	if contentType != expectedContentType && !sniffHTML(body) {
		return "", nil, fmt.Errorf("%s: %w", target, ErrNotHTML)
	}

	finalURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}
	return body, finalURL, nil
}

// decodeBody transcodes raw to UTF-8 using the Content-Type charset or
// in-document hints. Undecodable bodies are returned unchanged.
func decodeBody(raw []byte, contentType string) string {
	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return string(raw)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// sniffHTML reports whether body starts like an HTML document, ignoring case.
func sniffHTML(body string) bool {
	head := strings.ToLower(body[:min(len(body), len(doctypePrefix))])
	return strings.HasPrefix(head, doctypePrefix) || strings.HasPrefix(head, htmlPrefix)
}
