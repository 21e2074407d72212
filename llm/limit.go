package llm

import (
	"context"

	"github.com/fwojciec/antmaster"
	"golang.org/x/time/rate"
)

var _ antmaster.Completer = (*LimitedCompleter)(nil)

// LimitedCompleter caps the request rate to the wrapped backend using a
// token bucket with a burst of 1.
type LimitedCompleter struct {
	next    antmaster.Completer
	limiter *rate.Limiter
}

// NewLimitedCompleter wraps next with a limit of rps requests per second.
func NewLimitedCompleter(next antmaster.Completer, rps float64) *LimitedCompleter {
	return &LimitedCompleter{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Complete waits for a token, then delegates. A context that ends while
// waiting is reported as EUNAVAILABLE.
func (c *LimitedCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", antmaster.Errorf(antmaster.EUNAVAILABLE, "rate limit: %v", err)
	}
	return c.next.Complete(ctx, system, prompt)
}
