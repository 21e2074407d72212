// Package websocket carries JSON-RPC envelopes over a persistent WebSocket
// connection. Both sides of a Conn can issue requests: outbound calls are
// correlated with their responses by id, inbound requests are served
// concurrently by a Handler.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/antmaster/jsonrpc"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

// Defaults for Conn options.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultReadLimit = 1 << 20

	writeWait = 10 * time.Second
)

// Handler serves inbound requests. ServeRPC must return a response envelope
// for req; the Conn fills in the id.
type Handler interface {
	ServeRPC(ctx context.Context, req *jsonrpc.Message) *jsonrpc.Message
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *jsonrpc.Message) *jsonrpc.Message

// ServeRPC calls f(ctx, req).
func (f HandlerFunc) ServeRPC(ctx context.Context, req *jsonrpc.Message) *jsonrpc.Message {
	return f(ctx, req)
}

// Option configures a Conn.
type Option func(*Conn)

// WithHandler sets the Handler for inbound requests. Without one, every
// inbound request is answered with MethodNotFound.
func WithHandler(h Handler) Option {
	return func(c *Conn) {
		c.handler = h
	}
}

// WithLogger sets the logger for loop-level events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conn) {
		c.logger = logger
	}
}

// WithTimeout sets the deadline applied to each outbound request.
func WithTimeout(d time.Duration) Option {
	return func(c *Conn) {
		c.timeout = d
	}
}

// WithReadLimit caps the size of a single reassembled inbound message.
func WithReadLimit(n int64) Option {
	return func(c *Conn) {
		c.readLimit = n
	}
}

// Conn multiplexes JSON-RPC requests over a single WebSocket connection.
type Conn struct {
	ws        *ws.Conn
	handler   Handler
	logger    *slog.Logger
	timeout   time.Duration
	readLimit int64

	// writeMu serializes writes so frames of two envelopes never interleave.
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]*Call
	closed  bool

	closing atomic.Bool

	done      chan struct{}
	closeOnce sync.Once
	handlers  sync.WaitGroup
}

// NewConn wraps an established WebSocket connection. Call Serve to start
// the inbound loop.
func NewConn(conn *ws.Conn, opts ...Option) *Conn {
	c := &Conn{
		ws:        conn,
		logger:    slog.New(slog.DiscardHandler),
		timeout:   DefaultTimeout,
		readLimit: DefaultReadLimit,
		pending:   make(map[string]*Call),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial connects to a WebSocket endpoint and starts the inbound loop in the
// background. A failed connection returns a TransportUnavailable error.
func Dial(ctx context.Context, url string, opts ...Option) (*Conn, error) {
	conn, _, err := ws.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, jsonrpc.Errorf(jsonrpc.CodeTransportUnavailable, "connect %s: %v", url, err)
	}
	c := NewConn(conn, opts...)
	go func() {
		if err := c.Serve(context.WithoutCancel(ctx)); err != nil {
			c.logger.Warn("websocket loop stopped", "url", url, "err", err)
		}
	}()
	return c, nil
}

var upgrader = ws.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Upgrade upgrades an HTTP request to a WebSocket Conn. The caller runs
// Serve on the returned Conn.
func Upgrade(w http.ResponseWriter, r *http.Request, opts ...Option) (*Conn, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("upgrade: %w", err)
	}
	return NewConn(conn, opts...), nil
}

// Serve runs the inbound loop until the connection fails, the peer closes it
// or ctx is canceled. Each complete message is dispatched without waiting
// for earlier requests to finish. On return every pending call has been
// resolved with TransportUnavailable and the underlying connection is
// closed. A normal close returns nil.
func (c *Conn) Serve(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, func() { c.ws.Close() })
	defer stop()

	c.ws.SetReadLimit(c.readLimit)

	var err error
	for {
		var typ int
		var r io.Reader
		typ, r, err = c.ws.NextReader()
		if err != nil {
			break
		}
		if typ != ws.TextMessage {
			c.logger.Warn("dropping non-text message", "type", typ)
			continue
		}
		var data []byte
		if data, err = io.ReadAll(r); err != nil {
			break
		}
		c.dispatch(loopCtx, data)
	}

	c.shutdown(err)
	cancel()
	c.handlers.Wait()
	_ = c.ws.Close()

	if c.closing.Load() || ws.IsCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway) || ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *Conn) dispatch(ctx context.Context, data []byte) {
	msg, err := jsonrpc.Decode(data)
	if err != nil {
		c.logger.Warn("malformed envelope", "err", err)
		c.reply(jsonrpc.NewError(nil, asRPCError(err)))
		return
	}

	switch msg.Kind() {
	case jsonrpc.KindRequest:
		c.handlers.Add(1)
		go c.handle(ctx, msg)
	case jsonrpc.KindResponse:
		c.complete(msg)
	case jsonrpc.KindNotification:
		c.logger.Debug("ignoring notification", "method", msg.Method)
	default:
		c.reply(jsonrpc.NewError(msg.ID, jsonrpc.Errorf(jsonrpc.CodeInvalidRequest, "Invalid Request")))
	}
}

// handle serves one inbound request and writes exactly one response.
func (c *Conn) handle(ctx context.Context, req *jsonrpc.Message) {
	defer c.handlers.Done()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("handler panic", "method", req.Method, "panic", r)
			c.reply(jsonrpc.NewError(req.ID, jsonrpc.Errorf(jsonrpc.CodeInternalError, "Internal error: %v", r)))
		}
	}()

	var resp *jsonrpc.Message
	if c.handler == nil {
		resp = jsonrpc.NewError(req.ID, jsonrpc.Errorf(jsonrpc.CodeMethodNotFound, "Method not found"))
	} else {
		resp = c.handler.ServeRPC(ctx, req)
	}
	switch {
	case resp == nil:
		resp = jsonrpc.NewError(req.ID, jsonrpc.Errorf(jsonrpc.CodeInternalError, "Internal error: empty response"))
	case resp.Error != nil:
		resp.Result = nil
	case resp.Result == nil:
		resp.Result = jsonrpc.Null
	}
	resp.JSONRPC = jsonrpc.Version
	resp.ID = req.ID
	c.reply(resp)
}

// complete resolves the pending call matching resp. Responses without an id
// or with an unknown one are dropped.
func (c *Conn) complete(resp *jsonrpc.Message) {
	if !resp.HasID() {
		if resp.Error != nil {
			c.logger.Warn("dropping response without id", "code", resp.Error.Code, "message", resp.Error.Message)
		} else {
			c.logger.Warn("dropping response without id")
		}
		return
	}
	key := resp.IDKey()
	c.mu.Lock()
	call, ok := c.pending[key]
	if ok {
		delete(c.pending, key)
	}
	c.mu.Unlock()

	if !ok {
		c.logger.Warn("dropping response for unknown id", "id", key)
		return
	}
	call.stopTimer()
	if resp.Error != nil {
		call.resolve(nil, resp.Error)
		return
	}
	call.resolve(resp.Result, nil)
}

func (c *Conn) reply(msg *jsonrpc.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("marshal response", "err", err)
		return
	}
	if err := c.write(data); err != nil {
		c.logger.Warn("write response", "err", err)
	}
}

func (c *Conn) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(ws.TextMessage, data)
}

// Send writes a request for method and returns its pending Call. The Call
// resolves with the correlated response, a Timeout error after the
// configured deadline, or TransportUnavailable if the connection is closed.
func (c *Conn) Send(ctx context.Context, method string, params any) *Call {
	call := &Call{
		ID:        uuid.NewString(),
		Method:    method,
		CreatedAt: time.Now(),
		conn:      c,
		done:      make(chan struct{}),
	}
	if err := ctx.Err(); err != nil {
		call.resolve(nil, err)
		return call
	}

	req, err := jsonrpc.NewRequest(call.ID, method, params)
	if err != nil {
		call.resolve(nil, jsonrpc.Errorf(jsonrpc.CodeInvalidParams, "%v", err))
		return call
	}
	data, err := json.Marshal(req)
	if err != nil {
		call.resolve(nil, jsonrpc.Errorf(jsonrpc.CodeInvalidParams, "%v", err))
		return call
	}
	call.key = req.IDKey()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		call.resolve(nil, jsonrpc.Errorf(jsonrpc.CodeTransportUnavailable, "connection closed"))
		return call
	}
	c.pending[call.key] = call
	call.timer = time.AfterFunc(c.timeout, func() {
		c.abandon(call, jsonrpc.Errorf(jsonrpc.CodeTimeout, "%s request timed out after %s", method, c.timeout))
	})
	c.mu.Unlock()

	if err := c.write(data); err != nil {
		c.abandon(call, jsonrpc.Errorf(jsonrpc.CodeTransportUnavailable, "write request: %v", err))
	}
	return call
}

// Call sends a request and waits for its result, decoding it into result
// when result is non-nil.
func (c *Conn) Call(ctx context.Context, method string, params, result any) error {
	raw, err := c.Send(ctx, method, params).Wait(ctx)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

// abandon removes call from the pending set and resolves it with err if it
// was still pending.
func (c *Conn) abandon(call *Call, err error) {
	c.mu.Lock()
	current, ok := c.pending[call.key]
	if ok && current == call {
		delete(c.pending, call.key)
	}
	c.mu.Unlock()

	if ok && current == call {
		call.stopTimer()
		call.resolve(nil, err)
	}
}

// Pending returns the number of outbound requests awaiting a response.
func (c *Conn) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Done is closed once the connection stops accepting requests.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close sends a close frame and closes the connection. Pending calls
// resolve with TransportUnavailable.
func (c *Conn) Close() error {
	c.closing.Store(true)
	c.writeMu.Lock()
	_ = c.ws.WriteControl(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""), time.Now().Add(writeWait))
	c.writeMu.Unlock()

	c.shutdown(errors.New("closed by client"))
	return c.ws.Close()
}

func (c *Conn) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		calls := c.pending
		c.pending = make(map[string]*Call)
		c.mu.Unlock()

		for _, call := range calls {
			call.stopTimer()
			call.resolve(nil, jsonrpc.Errorf(jsonrpc.CodeTransportUnavailable, "connection closed: %v", cause))
		}
		close(c.done)
	})
}

func asRPCError(err error) *jsonrpc.Error {
	var e *jsonrpc.Error
	if errors.As(err, &e) {
		return e
	}
	return jsonrpc.Errorf(jsonrpc.CodeInternalError, "%v", err)
}
