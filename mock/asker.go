package mock

import (
	"context"

	"github.com/fwojciec/antmaster"
)

var _ antmaster.Asker = (*Asker)(nil)

// Asker is a mock implementation of antmaster.Asker.
type Asker struct {
	AskFn func(ctx context.Context, q antmaster.Query) (*antmaster.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, q antmaster.Query) (*antmaster.Answer, error) {
	return a.AskFn(ctx, q)
}
