package crawler

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultUserAgent identifies the crawler to servers and robots.txt.
	DefaultUserAgent = "MagicDocsBot"

	// DefaultDelay paces fetches when robots.txt declares no Crawl-delay.
	DefaultDelay = 500 * time.Millisecond

	// DefaultRequestTimeout bounds a single page request.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultMaxBodySize caps how much of a page body is read (10MB).
	DefaultMaxBodySize int64 = 10 * 1024 * 1024

	// DefaultBloomCapacity and DefaultBloomFalsePositiveRate size a
	// VisitedTracker when the caller passes zero values.
	DefaultBloomCapacity          uint    = 100_000
	DefaultBloomFalsePositiveRate float64 = 0.001

	// robotsTimeout bounds the robots.txt request.
	robotsTimeout = 5 * time.Second
)

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxDepth bounds traversal to links at most depth path segments below
// the start path. Without this option depth is unbounded; a negative depth
// also means unbounded.
func WithMaxDepth(depth int) Option {
	return func(c *Crawler) {
		c.maxDepth = depth
		c.bounded = depth >= 0
	}
}

// WithUserAgent sets the User-Agent sent with every request. Its product
// token selects the robots.txt group.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient sets the client used for robots.txt and page requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) {
		c.client = client
	}
}

// WithRequestTimeout bounds each page request.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Crawler) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// WithDefaultDelay sets the pacing used when robots.txt has no Crawl-delay.
func WithDefaultDelay(d time.Duration) Option {
	return func(c *Crawler) {
		if d >= 0 {
			c.defaultDelay = d
		}
	}
}

// WithMaxBodySize caps the bytes read from each page.
func WithMaxBodySize(size int64) Option {
	return func(c *Crawler) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithVisitedSet replaces the default in-memory visited set.
// The set must be empty and must not be shared with another crawl.
func WithVisitedSet(set VisitedSet) Option {
	return func(c *Crawler) {
		if set != nil {
			c.visited = set
		}
	}
}

// WithLogger sets the structured logger. Logging is discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}
