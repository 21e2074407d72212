package mock

import (
	"context"

	"github.com/fwojciec/antmaster"
)

var _ antmaster.Completer = (*Completer)(nil)

// Completer is a mock implementation of antmaster.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, system, prompt string) (string, error)
}

func (c *Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	return c.CompleteFn(ctx, system, prompt)
}
