package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSON-RPC version carried by every envelope.
const jsonRPCVersion = "2.0"

// Error codes returned in error envelopes.
const (
	CodeInvalidRequest  = -32600 // missing required argument
	CodeMethodNotFound  = -32601
	CodeUnknownTool     = -32602
	CodeInternalError   = -32603 // undecodable envelope
	CodeExecutionFailed = -32000
)

// Request is a decoded request envelope. ID is kept raw so it can be echoed
// byte for byte; it is nil when the request carried none.
type Request struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a response envelope. Exactly one of Result and Error is set.
// ID is always serialized, as null when the request had none.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the error member of a response envelope.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// NewResult builds a success envelope.
func NewResult(id json.RawMessage, result any) Response {
	if result == nil {
		result = struct{}{}
	}
	return Response{JSONRPC: jsonRPCVersion, ID: id, Result: result}
}

// NewError builds an error envelope.
func NewError(id json.RawMessage, code int, message string) Response {
	return Response{JSONRPC: jsonRPCVersion, ID: id, Error: &Error{Code: code, Message: message}}
}

// DecodeRequest parses one envelope. A literal null id is treated as absent.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, err
	}
	if bytes.Equal(bytes.TrimSpace(req.ID), []byte("null")) {
		req.ID = nil
	}
	return req, nil
}

// HasID reports whether the request carried a non-null id.
func (r Request) HasID() bool { return len(r.ID) > 0 }
