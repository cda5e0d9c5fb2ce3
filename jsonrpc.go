// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

// Package a2a provides the wire types for the Agent-to-Agent (A2A)
// JSON-RPC protocol spoken between the form-agent server and its clients.
package a2a

import (
	"encoding/json"
	"fmt"
)

// JSONRPCVersion is the only protocol version accepted by either side.
const JSONRPCVersion = "2.0"

// A2A RPC method names.
const (
	// MethodTasksSend is the method name for sending a task.
	MethodTasksSend = "tasks/send"
	// MethodTasksGet is the method name for getting a task.
	MethodTasksGet = "tasks/get"
	// MethodTasksCancel is the method name for canceling a task.
	MethodTasksCancel = "tasks/cancel"
)

// A2A protocol path constants.
const (
	// AgentCardWellKnownPath is the standard path for retrieving an agent's public AgentCard.
	AgentCardWellKnownPath = "/.well-known/agent.json"

	// RPCPath is the path of the JSON-RPC endpoint.
	RPCPath = "/a2a"
)

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	// JSONRPC version, always "2.0".
	JSONRPC string `json:"jsonrpc"`
	// Method identifies the operation to perform.
	Method string `json:"method"`
	// ID is a unique identifier for request/response correlation.
	ID string `json:"id,omitempty"`
	// Params contains parameters for the method.
	Params json.RawMessage `json:"params,omitempty"`
}

// NewRequest creates a new [Request] with the given id, marshaling params
// into the raw params field.
func NewRequest(id, method string, params any) (Request, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return Request{}, fmt.Errorf("marshal params: %w", err)
	}
	return Request{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		ID:      id,
		Params:  raw,
	}, nil
}

// Error represents a JSON-RPC 2.0 error.
type Error struct {
	// Code is the error code.
	Code int `json:"code"`
	// Message is a short description of the error.
	Message string `json:"message"`
	// Data contains optional additional error details.
	Data any `json:"data,omitempty"`
}

// Error implements the error interface so protocol errors can flow through
// ordinary error returns on the client side.
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Response represents a JSON-RPC 2.0 response. Exactly one of Result and
// Error is populated.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id,omitempty"`
	// Result contains the successful result data.
	// Mutually exclusive with Error.
	Result map[string]any `json:"result,omitempty"`
	// Error contains an error object if the request failed.
	// Mutually exclusive with Result.
	Error *Error `json:"error,omitempty"`
}

// NewResponse creates a success [Response] for the given request id.
func NewResponse(id string, result map[string]any) Response {
	return Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse creates an error [Response] for the given request id.
func NewErrorResponse(id string, err *Error) Response {
	return Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   err,
	}
}

// IsSuccess reports whether the response carries a result rather than an error.
func (r Response) IsSuccess() bool {
	return r.Error == nil
}

// ResultMessage returns the human-readable "message" field of the result,
// looking through the nested task-result mapping produced by tasks/send.
// Returns the empty string when absent.
func (r Response) ResultMessage() string {
	if msg, ok := r.Result["message"].(string); ok {
		return msg
	}
	if inner, ok := r.Result["result"].(map[string]any); ok {
		if msg, ok := inner["message"].(string); ok {
			return msg
		}
	}
	return ""
}

// Standard JSON-RPC 2.0 error codes.
const (
	// JSONParseErrorCode indicates an invalid JSON payload.
	JSONParseErrorCode = -32700
	// InvalidRequestErrorCode indicates a request payload validation error.
	InvalidRequestErrorCode = -32600
	// MethodNotFoundErrorCode indicates the method does not exist.
	MethodNotFoundErrorCode = -32601
	// InvalidParamsErrorCode indicates invalid method parameters.
	InvalidParamsErrorCode = -32602
	// InternalErrorCode indicates an internal server error.
	InternalErrorCode = -32603
)

// A2A specific error codes.
const (
	// TaskNotFoundErrorCode indicates the specified task ID was not found.
	TaskNotFoundErrorCode = -32001
	// TaskFailedErrorCode indicates a task reached the failed state.
	// Reserved for interop; the server reports task failure through the
	// task status instead of this code.
	TaskFailedErrorCode = -32002
)

// NewJSONParseError creates a new parse error.
func NewJSONParseError() *Error {
	return &Error{
		Code:    JSONParseErrorCode,
		Message: "Invalid JSON payload",
	}
}

// NewInvalidRequestError creates a new invalid-request error.
func NewInvalidRequestError(message string) *Error {
	return &Error{
		Code:    InvalidRequestErrorCode,
		Message: message,
	}
}

// NewMethodNotFoundError creates a new method-not-found error.
func NewMethodNotFoundError(method string) *Error {
	return &Error{
		Code:    MethodNotFoundErrorCode,
		Message: "Unknown method: " + method,
	}
}

// NewInvalidParamsError creates a new invalid-params error.
func NewInvalidParamsError(message string) *Error {
	return &Error{
		Code:    InvalidParamsErrorCode,
		Message: message,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string) *Error {
	return &Error{
		Code:    InternalErrorCode,
		Message: message,
	}
}

// NewTaskNotFoundError creates a new task-not-found error.
func NewTaskNotFoundError(message string) *Error {
	return &Error{
		Code:    TaskNotFoundErrorCode,
		Message: message,
	}
}
