package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum delay between successive requests to one
// source. Each source gets its own Pacer; there is no shared limit
// across sources.
type Pacer struct {
	lim *rate.Limiter
}

func NewPacer(minDelay time.Duration) *Pacer {
	if minDelay <= 0 {
		minDelay = time.Second
	}
	// burst 1: the first request goes through immediately, every later
	// one waits out the full delay
	return &Pacer{lim: rate.NewLimiter(rate.Every(minDelay), 1)}
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}
