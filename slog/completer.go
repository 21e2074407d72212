package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/antmaster"
)

var _ antmaster.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with logging of prompt and reply sizes.
type LoggingCompleter struct {
	next   antmaster.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next antmaster.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs the call.
func (c *LoggingCompleter) Complete(ctx context.Context, system, prompt string) (reply string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("complete",
			"system_bytes", len(system),
			"prompt_bytes", len(prompt),
			"reply_bytes", len(reply),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, system, prompt)
}
