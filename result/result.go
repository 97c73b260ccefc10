// Package result holds the data a crawl produces: fetched pages,
// aggregate statistics and the writers that render them.
package result

import (
	"net/url"
	"time"
)

// PageResult is one successfully fetched HTML page.
type PageResult struct {
	URL   *url.URL   // The fetched URL
	Links []*url.URL // Same-host links discovered on the page
	Title string     // First <h1>, else <title>, else "unnamed"
	HTML  string     // Raw page body
}

// CrawlStats contains aggregate statistics for a crawl run.
type CrawlStats struct {
	Visited       int                   // URLs marked visited and handed to the spider
	Results       int                   // Pages yielded as results
	RobotsDenied  int                   // Queue entries dropped by robots.txt
	DepthExcluded int                   // Discovered links outside the depth window
	Skipped       map[ErrorCategory]int // Failed fetches by category
	Duration      time.Duration         // Wall time from first pull to termination
}

// SkippedTotal returns the number of failed fetches across all categories.
func (s CrawlStats) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// Result represents the complete output of a crawl as collected by a consumer.
type Result struct {
	Pages []PageResult
	Stats CrawlStats
}
