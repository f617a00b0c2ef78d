package engine

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/use-agent/pricecheck/models"
)

// Paced wraps an Engine with a process-wide token bucket so upstream sources
// see a bounded request rate regardless of inbound traffic.
type Paced struct {
	next    Engine
	limiter *rate.Limiter
}

// NewPaced returns next wrapped with a limiter of rps requests per second.
// rps <= 0 disables pacing and returns next unchanged.
func NewPaced(next Engine, rps float64, burst int) Engine {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &Paced{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (p *Paced) Name() string { return p.next.Name() }

func (p *Paced) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	// Wait fails when the context ends first or the deadline is too close
	// to ever get a token; both are timeouts from the caller's view.
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeTimeout, "timeout", err)
	}
	return p.next.Fetch(ctx, req)
}
