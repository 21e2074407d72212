// Package jsonrpc defines the JSON-RPC 2.0 envelope exchanged over the
// transport and its error taxonomy.
package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Version is the protocol version tag carried by every envelope.
const Version = "2.0"

// Error codes. The -32000 to -32099 range is reserved for
// implementation-defined errors.
const (
	CodeParseError           = -32700
	CodeInvalidRequest       = -32600
	CodeMethodNotFound       = -32601
	CodeInvalidParams        = -32602
	CodeInternalError        = -32603
	CodeTransportUnavailable = -32001
	CodeTimeout              = -32004
)

// Null is the JSON null id used when a request id cannot be determined.
var Null = json.RawMessage("null")

// Kind classifies an envelope.
type Kind int

const (
	KindInvalid Kind = iota
	KindRequest
	KindNotification
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindNotification:
		return "notification"
	case KindResponse:
		return "response"
	default:
		return "invalid"
	}
}

// Message is a JSON-RPC envelope. Requests carry ID and Method, responses
// carry ID and exactly one of Result or Error.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Kind reports what the envelope is. Any envelope without a method that
// carries a result or an error is a response, whatever its id; a response
// is never answered.
func (m *Message) Kind() Kind {
	switch {
	case m.Method != "" && m.HasID():
		return KindRequest
	case m.Method != "":
		return KindNotification
	case m.Result != nil || m.Error != nil:
		return KindResponse
	default:
		return KindInvalid
	}
}

// HasID reports whether the envelope carries a non-null id.
func (m *Message) HasID() bool {
	return len(m.ID) > 0 && !bytes.Equal(bytes.TrimSpace(m.ID), Null)
}

// IDKey returns a canonical string form of the id suitable as a map key.
func (m *Message) IDKey() string {
	return IDKey(m.ID)
}

// IDKey returns the compacted JSON text of id.
func IDKey(id json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, id); err != nil {
		return string(id)
	}
	return buf.String()
}

// Decode parses data into a Message. Malformed JSON yields a ParseError.
func Decode(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, Errorf(CodeParseError, "Parse error: %v", err)
	}
	return &m, nil
}

// NewRequest returns a request envelope with params marshaled to JSON.
func NewRequest(id string, method string, params any) (*Message, error) {
	rawID, err := json.Marshal(id)
	if err != nil {
		return nil, err
	}
	m := &Message{JSONRPC: Version, ID: rawID, Method: method}
	if params != nil {
		if m.Params, err = json.Marshal(params); err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
	}
	return m, nil
}

// NewResult returns a success response for id.
func NewResult(id json.RawMessage, result any) (*Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &Message{JSONRPC: Version, ID: orNull(id), Result: data}, nil
}

// NewError returns an error response for id. A missing id becomes null.
func NewError(id json.RawMessage, err *Error) *Message {
	return &Message{JSONRPC: Version, ID: orNull(id), Error: err}
}

func orNull(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return Null
	}
	return id
}

// Error is the error object of a response envelope. It implements error so
// callers receive it directly from a failed call.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Errorf returns an Error with a formatted message.
func Errorf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the JSON-RPC code of err, or CodeInternalError when err is
// not an *Error. A nil error returns 0.
func CodeOf(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternalError
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	return err != nil && CodeOf(err) == CodeTimeout
}

// IsUnavailable reports whether err means the connection is unusable.
func IsUnavailable(err error) bool {
	return err != nil && CodeOf(err) == CodeTransportUnavailable
}
