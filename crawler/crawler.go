// Package crawler provides a polite, depth-bounded site crawler.
// It honours robots.txt, stays inside the start path's subtree on the start
// host, paces requests by the declared crawl delay and streams progress
// messages and fetched pages to the caller as a lazy sequence.
package crawler

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"time"

	"github.com/lukemcguire/docscrawl/result"
	"github.com/lukemcguire/docscrawl/urlutil"
)

// Crawler traverses one site from a start URL. A Crawler owns its queue,
// visited set and robots policy and runs a single crawl; it is not safe for
// concurrent use.
type Crawler struct {
	start    *url.URL
	basePath string
	maxDepth int
	bounded  bool

	userAgent      string
	client         *http.Client
	requestTimeout time.Duration
	defaultDelay   time.Duration
	maxBodySize    int64
	logger         *slog.Logger

	queue   []*url.URL
	queued  map[string]struct{} // paths currently in queue
	visited VisitedSet
	started bool
	stats   result.CrawlStats
}

// New creates a Crawler for startURL. It fails with ErrInvalidStartURL when
// startURL is not an absolute http or https URL.
func New(startURL string, opts ...Option) (*Crawler, error) {
	start, err := urlutil.Normalize(startURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStartURL, err)
	}
	if !urlutil.IsHTTPScheme(start) {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidStartURL, start.Scheme)
	}
	if start.Path == "" {
		start.Path = "/"
	}

	c := &Crawler{
		start:          start,
		basePath:       urlutil.PathKey(start),
		maxDepth:       -1,
		userAgent:      DefaultUserAgent,
		requestTimeout: DefaultRequestTimeout,
		defaultDelay:   DefaultDelay,
		maxBodySize:    DefaultMaxBodySize,
		logger:         slog.New(slog.DiscardHandler),
		visited:        NewMemoryVisited(),
		stats:          result.CrawlStats{Skipped: make(map[result.ErrorCategory]int)},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{}
	}

	c.queue = []*url.URL{start}
	c.queued = map[string]struct{}{c.basePath: {}}
	return c, nil
}

// Start returns the crawl as a pull-driven sequence. Each pull performs at
// most one page fetch: a Message event announces the fetch and a Result
// event follows when the page was fetched and parsed. Pages that fail are
// skipped silently. After each Result is consumed, and while the queue is
// not empty, the crawler sleeps for the crawl delay before the next pull
// proceeds; failed pages do not pause. The sequence ends when the queue is
// empty, when ctx is done, or when the consumer stops ranging. It can be
// consumed only once; later calls yield nothing.
func (c *Crawler) Start(ctx context.Context) iter.Seq[StreamEvent] {
	return func(yield func(StreamEvent) bool) {
		if c.started {
			return
		}
		c.started = true

		begin := time.Now()
		defer func() { c.stats.Duration = time.Since(begin) }()

		robots := c.loadRobots(ctx)
		delay := c.defaultDelay
		if d, ok := robots.Delay(); ok {
			delay = d
		}
		pacer := NewPacer(delay)
		spider := NewSpider(c.client, c.start,
			WithSpiderUserAgent(c.userAgent),
			WithSpiderMaxBodySize(c.maxBodySize),
		)

		c.logger.Info("crawl started",
			"url", c.start.String(),
			"max_depth", c.maxDepth,
			"delay", delay,
			"robots_rules", len(robots.Rules()),
		)

		for len(c.queue) > 0 {
			if ctx.Err() != nil {
				return
			}

			target := c.pop()
			if !robots.Allowed(target) {
				c.stats.RobotsDenied++
				c.logger.Debug("disallowed by robots.txt", "url", target.String())
				continue
			}

			key := urlutil.PathKey(target)
			if c.visited.IsVisited(key) {
				continue
			}
			c.visited.Visit(key)
			c.stats.Visited++

			if !yield(MessageEvent(fmt.Sprintf("Visiting %s://%s%s", target.Scheme, target.Host, target.Path))) {
				return
			}

			page, err := c.fetch(ctx, spider, target)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				category := classify(err)
				c.stats.Skipped[category]++
				c.logger.Debug("skipping page", "url", target.String(), "category", category, "error", err)
				continue
			}

			c.enqueueLinks(page.Links)
			c.stats.Results++
			if !yield(ResultEvent(page)) {
				return
			}

			if len(c.queue) > 0 {
				if err := pacer.Pause(ctx); err != nil {
					return
				}
			}
		}

		c.logger.Info("crawl finished", "results", c.stats.Results, "visited", c.stats.Visited)
	}
}

// Stats returns a snapshot of the crawl counters.
func (c *Crawler) Stats() result.CrawlStats {
	stats := c.stats
	stats.Skipped = maps.Clone(c.stats.Skipped)
	return stats
}

func (c *Crawler) loadRobots(ctx context.Context) *RobotsTxt {
	robotsCtx, cancel := context.WithTimeout(ctx, robotsTimeout)
	defer cancel()

	robots, err := FetchRobots(robotsCtx, c.client, c.start, c.userAgent)
	if err != nil {
		c.logger.Info("robots.txt unavailable, crawling without restrictions", "host", c.start.Host, "error", err)
	}
	return robots
}

func (c *Crawler) fetch(ctx context.Context, spider *Spider, target *url.URL) (*result.PageResult, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	return spider.Fetch(reqCtx, target)
}

// pop removes the most recently queued URL.
func (c *Crawler) pop() *url.URL {
	last := len(c.queue) - 1
	target := c.queue[last]
	c.queue[last] = nil
	c.queue = c.queue[:last]
	delete(c.queued, urlutil.PathKey(target))
	return target
}

// enqueueLinks queues links strictly below the start path and within the
// depth bound, once per path. Everything else is marked visited so it is
// never reconsidered.
func (c *Crawler) enqueueLinks(links []*url.URL) {
	for _, link := range links {
		key := urlutil.PathKey(link)
		if c.visited.IsVisited(key) {
			continue
		}
		if _, ok := c.queued[key]; ok {
			continue
		}

		depth := urlutil.RelativeDepth(c.basePath, key)
		if depth > 0 && (!c.bounded || depth <= c.maxDepth) {
			c.queue = append(c.queue, link)
			c.queued[key] = struct{}{}
			continue
		}
		c.visited.Visit(key)
		c.stats.DepthExcluded++
	}
}
