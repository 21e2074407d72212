package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Call is an outbound request awaiting its response. It resolves exactly
// once: with the correlated result, a Timeout error, or a
// TransportUnavailable error.
type Call struct {
	ID        string
	Method    string
	CreatedAt time.Time

	conn  *Conn
	key   string
	timer *time.Timer

	once   sync.Once
	done   chan struct{}
	result json.RawMessage
	err    error
}

// Done is closed when the call resolves.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Result returns the outcome of a resolved call. It must only be called
// after Done is closed.
func (c *Call) Result() (json.RawMessage, error) {
	return c.result, c.err
}

// Wait blocks until the call resolves or ctx is done. Canceling ctx only
// abandons this caller's wait; the peer may still complete the request and
// its late response is dropped.
func (c *Call) Wait(ctx context.Context) (json.RawMessage, error) {
	select {
	case <-c.done:
	case <-ctx.Done():
		if c.conn != nil {
			c.conn.abandon(c, ctx.Err())
		}
		<-c.done
	}
	return c.result, c.err
}

func (c *Call) resolve(result json.RawMessage, err error) {
	c.once.Do(func() {
		c.result, c.err = result, err
		close(c.done)
	})
}

func (c *Call) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
	}
}
