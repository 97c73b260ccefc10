package crawler

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer holds the crawler back for one crawl delay between pages. Each
// Pause spans a full delay measured from the moment it is called, so a slow
// page or a slow consumer never shortens the next pause.
type Pacer struct {
	limit rate.Limit
	delay time.Duration
}

// NewPacer creates a Pacer for the given delay. A non-positive delay
// disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Pacer{limit: limit, delay: delay}
}

// Pause blocks for one delay or until ctx is done.
func (p *Pacer) Pause(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}

	// A fresh single-token bucket starts full; taking that token now makes
	// the following Wait last one whole interval.
	limiter := rate.NewLimiter(p.limit, 1)
	limiter.AllowN(time.Now(), 1)
	return limiter.Wait(ctx)
}

// Delay returns the configured interval.
func (p *Pacer) Delay() time.Duration {
	return p.delay
}
