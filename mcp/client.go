package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/jsonrpc"
)

// Caller issues JSON-RPC requests. *websocket.Conn implements it.
type Caller interface {
	Call(ctx context.Context, method string, params, result any) error
}

var _ antmaster.Asker = (*Client)(nil)

// Client talks to a remote MCP Server.
type Client struct {
	caller Caller
}

// NewClient creates a Client issuing requests through caller.
func NewClient(caller Caller) *Client {
	return &Client{caller: caller}
}

// Initialize performs the initialize handshake.
func (c *Client) Initialize(ctx context.Context) (*InitializeResult, error) {
	var res InitializeResult
	if err := c.caller.Call(ctx, "initialize", struct{}{}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListTools returns the tools offered by the server.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	var res ToolsListResult
	if err := c.caller.Call(ctx, "tools/list", struct{}{}, &res); err != nil {
		return nil, err
	}
	return res.Tools, nil
}

// Ask calls the ask_expert tool and decodes its answer.
func (c *Client) Ask(ctx context.Context, q antmaster.Query) (*antmaster.Answer, error) {
	args, err := json.Marshal(AskArguments{Query: q.Text, SpeciesContext: q.SpeciesContext})
	if err != nil {
		return nil, err
	}

	var res CallResult
	if err := c.caller.Call(ctx, "tools/call", CallParams{Name: ToolAskExpert, Arguments: args}, &res); err != nil {
		return nil, err
	}

	for _, block := range res.Content {
		if block.Type != "text" {
			continue
		}
		var answer antmaster.Answer
		if err := json.Unmarshal([]byte(block.Text), &answer); err != nil {
			return nil, fmt.Errorf("decode answer: %w", err)
		}
		if answer.Species == nil {
			answer.Species = []*antmaster.Species{}
		}
		return &answer, nil
	}
	return nil, jsonrpc.Errorf(jsonrpc.CodeInternalError, "tool result has no text content")
}
