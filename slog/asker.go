package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/antmaster"
)

var _ antmaster.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker and logs every question with the rule that
// answered it.
type LoggingAsker struct {
	next   antmaster.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next antmaster.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask delegates to the wrapped asker and logs the outcome.
func (a *LoggingAsker) Ask(ctx context.Context, q antmaster.Query) (answer *antmaster.Answer, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"query", q.Text,
			"context", q.SpeciesContext,
			"duration", time.Since(begin),
		}
		if answer != nil {
			attrs = append(attrs,
				"source", answer.Source,
				"species", len(answer.Species),
				"backend_err", answer.Error,
			)
		}
		attrs = append(attrs, "err", err)
		a.logger.Info("ask", attrs...)
	}(time.Now())
	return a.next.Ask(ctx, q)
}
