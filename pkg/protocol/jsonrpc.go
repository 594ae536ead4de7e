package protocol

import "encoding/json"

// JSON-RPC 2.0 messages exchanged between the console and an agent endpoint.

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id,omitempty"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// RawResponse is a Response whose result is left undecoded.
type RawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Agent error codes.
const (
	CodeCapabilityUnsupported = -32000
	CodeInvocationFailed      = -32001
	CodeUnauthorized          = -32002
)

// Methods served by an agent endpoint.
const (
	MethodDescribe = "session.describe"
	MethodInvoke   = "invoke"
)

// NewResponse creates a successful response.
func NewResponse(id any, result any) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(id any, code int, message string, data any) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// DescribeResult is what an agent reports about itself at connect time.
type DescribeResult struct {
	OS             string   `json:"os"`
	Capabilities   []string `json:"capabilities"`
	CollectActions []string `json:"collect_actions,omitempty"`
	CollectTypes   []string `json:"collect_types,omitempty"`
}

// InvokeParams holds parameters for the "invoke" method.
type InvokeParams struct {
	Capability string          `json:"capability"`
	Params     json.RawMessage `json:"params,omitempty"`
}
