package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/jsonrpc"
	"github.com/fwojciec/antmaster/websocket"
)

var _ websocket.Handler = (*Server)(nil)

// Server answers MCP requests by routing ask_expert calls to an Asker.
type Server struct {
	asker  antmaster.Asker
	logger *slog.Logger
}

// NewServer creates a Server backed by asker.
func NewServer(asker antmaster.Asker, logger *slog.Logger) *Server {
	return &Server{asker: asker, logger: logger}
}

// ServeRPC dispatches req by method.
func (s *Server) ServeRPC(ctx context.Context, req *jsonrpc.Message) *jsonrpc.Message {
	switch ParseMethod(req.Method) {
	case MethodInitialize:
		return result(req, InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    Capabilities{Tools: &struct{}{}, Resources: &struct{}{}},
			ServerInfo:      ServerInfo{Name: ServerName, Version: ServerVersion},
		})
	case MethodToolsList:
		return result(req, ToolsListResult{Tools: []Tool{AskExpertTool()}})
	case MethodToolsCall:
		return s.callTool(ctx, req)
	default:
		return jsonrpc.NewError(req.ID, jsonrpc.Errorf(jsonrpc.CodeMethodNotFound, "Method not found"))
	}
}

func (s *Server) callTool(ctx context.Context, req *jsonrpc.Message) *jsonrpc.Message {
	var params CallParams
	if len(req.Params) == 0 || json.Unmarshal(req.Params, &params) != nil {
		return jsonrpc.NewError(req.ID, jsonrpc.Errorf(jsonrpc.CodeInvalidParams, "Invalid params"))
	}
	if params.Name == "" {
		return jsonrpc.NewError(req.ID, jsonrpc.Errorf(jsonrpc.CodeInvalidParams, "Missing tool name"))
	}
	if params.Name != ToolAskExpert {
		return jsonrpc.NewError(req.ID, jsonrpc.Errorf(jsonrpc.CodeMethodNotFound, "Tool '%s' not found", params.Name))
	}

	var args AskArguments
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments, &args); err != nil {
			return jsonrpc.NewError(req.ID, jsonrpc.Errorf(jsonrpc.CodeInvalidParams, "Invalid arguments: %v", err))
		}
	}
	if strings.TrimSpace(args.Query) == "" {
		return jsonrpc.NewError(req.ID, jsonrpc.Errorf(jsonrpc.CodeInvalidParams, "Missing query"))
	}

	answer, err := s.asker.Ask(ctx, antmaster.Query{Text: args.Query, SpeciesContext: args.SpeciesContext})
	if err != nil {
		s.logger.Error("ask_expert failed", "query", args.Query, "err", err)
		return jsonrpc.NewError(req.ID, jsonrpc.Errorf(jsonrpc.CodeInternalError, "Internal error: %s", antmaster.ErrorMessage(err)))
	}

	text, err := json.Marshal(answer)
	if err != nil {
		return jsonrpc.NewError(req.ID, jsonrpc.Errorf(jsonrpc.CodeInternalError, "Internal error: %v", err))
	}
	return result(req, CallResult{Content: []Content{{Type: "text", Text: string(text)}}})
}

func result(req *jsonrpc.Message, v any) *jsonrpc.Message {
	msg, err := jsonrpc.NewResult(req.ID, v)
	if err != nil {
		return jsonrpc.NewError(req.ID, jsonrpc.Errorf(jsonrpc.CodeInternalError, "Internal error: %v", err))
	}
	return msg
}
