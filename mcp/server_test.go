package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/jsonrpc"
	"github.com/fwojciec/antmaster/mcp"
	"github.com/fwojciec/antmaster/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(t *testing.T, method string, params any) *jsonrpc.Message {
	t.Helper()
	m, err := jsonrpc.NewRequest("req-1", method, params)
	require.NoError(t, err)
	return m
}

func newServer(asker antmaster.Asker) *mcp.Server {
	return mcp.NewServer(asker, slog.New(slog.DiscardHandler))
}

func TestParseMethod(t *testing.T) {
	t.Parallel()

	assert.Equal(t, mcp.MethodInitialize, mcp.ParseMethod("initialize"))
	assert.Equal(t, mcp.MethodToolsList, mcp.ParseMethod("tools/list"))
	assert.Equal(t, mcp.MethodToolsCall, mcp.ParseMethod("tools/call"))
	assert.Equal(t, mcp.MethodUnknown, mcp.ParseMethod("resources/list"))
	assert.Equal(t, "tools/call", mcp.MethodToolsCall.String())
}

func TestServer_Initialize(t *testing.T) {
	t.Parallel()

	resp := newServer(&mock.Asker{}).ServeRPC(context.Background(), request(t, "initialize", nil))

	require.Nil(t, resp.Error)
	assert.JSONEq(t, `{
		"protocolVersion": "2024-11-05",
		"capabilities": {"tools": {}, "resources": {}},
		"serverInfo": {"name": "AntMaster-MCP", "version": "1.0.0"}
	}`, string(resp.Result))
}

func TestServer_ToolsList(t *testing.T) {
	t.Parallel()

	resp := newServer(&mock.Asker{}).ServeRPC(context.Background(), request(t, "tools/list", nil))

	require.Nil(t, resp.Error)
	var res mcp.ToolsListResult
	require.NoError(t, json.Unmarshal(resp.Result, &res))
	require.Len(t, res.Tools, 1)
	assert.Equal(t, "ask_expert", res.Tools[0].Name)
	assert.Equal(t, []string{"query"}, res.Tools[0].InputSchema.Required)
	assert.Contains(t, res.Tools[0].InputSchema.Properties, "speciesContext")
}

func TestServer_UnknownMethod(t *testing.T) {
	t.Parallel()

	resp := newServer(&mock.Asker{}).ServeRPC(context.Background(), request(t, "resources/list", nil))

	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc.CodeMethodNotFound, resp.Error.Code)
	assert.Equal(t, "Method not found", resp.Error.Message)
}

func TestServer_ToolsCall(t *testing.T) {
	t.Parallel()

	t.Run("wraps answer as text content", func(t *testing.T) {
		t.Parallel()

		var got antmaster.Query
		asker := &mock.Asker{
			AskFn: func(_ context.Context, q antmaster.Query) (*antmaster.Answer, error) {
				got = q
				return antmaster.NewAnswer("Hola", []*antmaster.Species{{ID: 2, ScientificName: "Lasius niger"}}), nil
			},
		}

		resp := newServer(asker).ServeRPC(context.Background(), request(t, "tools/call", map[string]any{
			"name":      "ask_expert",
			"arguments": map[string]string{"query": "¿qué comen?", "speciesContext": "Lasius niger"},
		}))

		require.Nil(t, resp.Error)
		assert.Equal(t, antmaster.Query{Text: "¿qué comen?", SpeciesContext: "Lasius niger"}, got)

		var res mcp.CallResult
		require.NoError(t, json.Unmarshal(resp.Result, &res))
		require.Len(t, res.Content, 1)
		assert.Equal(t, "text", res.Content[0].Type)
		assert.JSONEq(t, `{"answer":"Hola","species":[{"id":2,"scientificName":"Lasius niger"}]}`, res.Content[0].Text)
	})

	t.Run("unknown tool", func(t *testing.T) {
		t.Parallel()

		resp := newServer(&mock.Asker{}).ServeRPC(context.Background(), request(t, "tools/call", map[string]any{"name": "delete_all"}))

		require.NotNil(t, resp.Error)
		assert.Equal(t, jsonrpc.CodeMethodNotFound, resp.Error.Code)
		assert.Equal(t, "Tool 'delete_all' not found", resp.Error.Message)
	})

	t.Run("missing tool name", func(t *testing.T) {
		t.Parallel()

		resp := newServer(&mock.Asker{}).ServeRPC(context.Background(), request(t, "tools/call", map[string]any{}))

		require.NotNil(t, resp.Error)
		assert.Equal(t, jsonrpc.CodeInvalidParams, resp.Error.Code)
	})

	t.Run("missing query", func(t *testing.T) {
		t.Parallel()

		resp := newServer(&mock.Asker{}).ServeRPC(context.Background(), request(t, "tools/call", map[string]any{
			"name":      "ask_expert",
			"arguments": map[string]string{"query": "  "},
		}))

		require.NotNil(t, resp.Error)
		assert.Equal(t, jsonrpc.CodeInvalidParams, resp.Error.Code)
	})

	t.Run("asker failure is internal error", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, _ antmaster.Query) (*antmaster.Answer, error) {
				return nil, errors.New("catalog offline")
			},
		}

		resp := newServer(asker).ServeRPC(context.Background(), request(t, "tools/call", map[string]any{
			"name":      "ask_expert",
			"arguments": map[string]string{"query": "hola"},
		}))

		require.NotNil(t, resp.Error)
		assert.Equal(t, jsonrpc.CodeInternalError, resp.Error.Code)
	})
}
