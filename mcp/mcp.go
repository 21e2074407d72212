// Package mcp serves the expert as a Model Context Protocol tool over a
// JSON-RPC connection and provides the matching client.
package mcp

import "encoding/json"

// Protocol constants advertised by initialize.
const (
	ProtocolVersion = "2024-11-05"
	ServerName      = "AntMaster-MCP"
	ServerVersion   = "1.0.0"

	// ToolAskExpert is the only tool exposed by the server.
	ToolAskExpert = "ask_expert"
)

// Method is the closed set of request methods understood by the server.
type Method int

const (
	MethodUnknown Method = iota
	MethodInitialize
	MethodToolsList
	MethodToolsCall
)

var methodNames = map[string]Method{
	"initialize": MethodInitialize,
	"tools/list": MethodToolsList,
	"tools/call": MethodToolsCall,
}

// ParseMethod maps a wire method name to a Method.
func ParseMethod(name string) Method {
	return methodNames[name]
}

// String returns the wire name of m.
func (m Method) String() string {
	for name, v := range methodNames {
		if v == m {
			return name
		}
	}
	return "unknown"
}

// InitializeResult is the result of initialize.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// Capabilities lists the server feature sets. Empty objects mean supported.
type Capabilities struct {
	Tools     *struct{} `json:"tools,omitempty"`
	Resources *struct{} `json:"resources,omitempty"`
}

// ServerInfo identifies the server implementation.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Tool describes a callable tool.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema is the JSON schema of a tool's arguments.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property is a single argument in an InputSchema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ToolsListResult is the result of tools/list.
type ToolsListResult struct {
	Tools []Tool `json:"tools"`
}

// CallParams are the params of tools/call.
type CallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// AskArguments are the arguments of the ask_expert tool.
type AskArguments struct {
	Query          string `json:"query"`
	SpeciesContext string `json:"speciesContext,omitempty"`
}

// CallResult is the result of tools/call.
type CallResult struct {
	Content []Content `json:"content"`
}

// Content is a block of tool output.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// AskExpertTool describes the ask_expert tool.
func AskExpertTool() Tool {
	return Tool{
		Name:        ToolAskExpert,
		Description: "Consulta experta sobre hormigas con IA y contexto de la BD.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"query":          {Type: "string", Description: "Pregunta del usuario."},
				"speciesContext": {Type: "string", Description: "Nombre de la especie actual (opcional)."},
			},
			Required: []string{"query"},
		},
	}
}
