// Package rpc defines the JSON-RPC 2.0 envelope and method parameter/result
// shapes exposed by cmd/vaulttasksd. internal/server owns the stdio loop and
// dispatch; this package only knows about wire shapes.
package rpc

import (
	"encoding/json"
	"fmt"
)

// Request models the JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response represents either a successful or failed JSON-RPC call.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *ErrorBody      `json:"error,omitempty"`
}

// ErrorBody matches the JSON-RPC error object.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrorCode enumerates JSON-RPC error codes.
type ErrorCode int

const (
	CodeParseError     ErrorCode = -32700
	CodeInvalidRequest ErrorCode = -32600
	CodeMethodNotFound ErrorCode = -32601
	CodeInvalidParams  ErrorCode = -32602
	CodeInternalError  ErrorCode = -32603
	CodeServerError    ErrorCode = -32000
)

// Error is the application-level error propagated to the RPC layer.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// ResponseResult builds a success response.
func ResponseResult(id json.RawMessage, result interface{}) Response {
	return Response{JSONRPC: "2.0", ID: id, Result: result}
}

// ResponseError builds an error response.
func ResponseError(id json.RawMessage, err Error) Response {
	return Response{JSONRPC: "2.0", ID: id, Error: &ErrorBody{Code: int(err.Code), Message: err.Message}}
}

// NullID returns a JSON null identifier placeholder.
func NullID() json.RawMessage { return json.RawMessage("null") }

// ParseParams decodes params into the supplied struct, defaulting to {}.
func ParseParams[T any](params json.RawMessage) (T, Error) {
	var out T
	payload := params
	if len(payload) == 0 || string(payload) == "null" {
		payload = []byte("{}")
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	return out, Error{}
}

func ParseError(message string) Error     { return Error{Code: CodeParseError, Message: message} }
func InvalidRequest(message string) Error { return Error{Code: CodeInvalidRequest, Message: message} }
func InvalidParams(message string) Error  { return Error{Code: CodeInvalidParams, Message: message} }
func InternalError(message string) Error  { return Error{Code: CodeInternalError, Message: message} }
func ServerError(message string) Error    { return Error{Code: CodeServerError, Message: message} }

func MethodNotFound(method string) Error {
	return Error{Code: CodeMethodNotFound, Message: fmt.Sprintf("unknown method %q", method)}
}

// ListTasksParams drives core.list_tasks: query is parsed with
// core.ParseFilter exactly as the CLI's "list" subcommand and the TUI's
// search box do.
type ListTasksParams struct {
	Query string `json:"query"`
}

// WriteTaskParams drives core.write_task. SourcePath/LineNumber select the
// line to rewrite (LineNumber omitted appends); the remaining fields are the
// task's new fixed attributes, mirroring core.Task's own field set.
type WriteTaskParams struct {
	SourcePath string   `json:"source_path"`
	LineNumber *int     `json:"line_number"`
	Name       string   `json:"name"`
	State      string   `json:"state"`
	DueDate    *string  `json:"due_date"`
	Priority   uint     `json:"priority"`
	Completion *uint    `json:"completion"`
	Tags       []string `json:"tags"`
	IsToday    bool     `json:"is_today"`
}

// LogTrackerParams drives core.log_tracker: it appends today's occurrence to
// the named tracker, optionally setting one category's value, the same
// operation the CLI's "tracker log" subcommand performs.
type LogTrackerParams struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Value    string `json:"value"`
}
