// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package jsonrpc implements the JSON-RPC 1.0 wire types spoken by the
// wallet's RPC server and its clients.
package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// RPCErrorCode represents an error code to be used as a part of an RPCError
// which is in turn used in a JSON-RPC Response object.
type RPCErrorCode int

// Standard JSON-RPC 2.0 errors.
const (
	ErrRPCInvalidRequest RPCErrorCode = -32600
	ErrRPCMethodNotFound RPCErrorCode = -32601
	ErrRPCInvalidParams  RPCErrorCode = -32602
	ErrRPCInternal       RPCErrorCode = -32603
	ErrRPCParse          RPCErrorCode = -32700
)

// General application defined JSON errors.
const (
	ErrRPCMisc               RPCErrorCode = -1
	ErrRPCInvalidParameter   RPCErrorCode = -8
	ErrRPCClientNotConnected RPCErrorCode = -9
	ErrRPCDeserialization    RPCErrorCode = -32
	ErrRPCUnimplemented      RPCErrorCode = -99
)

// Wallet server errors.
const (
	ErrRPCWallet                    RPCErrorCode = -4
	ErrRPCWalletInsufficientFunds   RPCErrorCode = -6
	ErrRPCWalletAlreadyUnlocked     RPCErrorCode = -17
	ErrRPCWalletNotFound            RPCErrorCode = -18
	ErrRPCWalletUnlockNeeded        RPCErrorCode = -13
	ErrRPCWalletPassphraseIncorrect RPCErrorCode = -14
	ErrRPCWalletNotSpecified        RPCErrorCode = -19
)

// RPCError represents an error that is used as a part of a JSON-RPC Response
// object.
type RPCError struct {
	Code    RPCErrorCode `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Guarantee RPCError satisfies the builtin error interface.
var _, _ error = RPCError{}, (*RPCError)(nil)

// Error returns a string describing the RPC error.  This satisfies the
// builtin error interface.
func (e RPCError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// NewRPCError constructs and returns a new JSON-RPC error that is suitable
// for use in a JSON-RPC Response object.
func NewRPCError(code RPCErrorCode, message string) *RPCError {
	return &RPCError{
		Code:    code,
		Message: message,
	}
}

// Request is a type for raw JSON-RPC 1.0 requests.  The Method field
// identifies the specific command type which in turn leads to different
// parameters.  Callers typically json.Unmarshal the raw request bytes into
// this struct and then parse Params with UnmarshalCmd.
type Request struct {
	Jsonrpc string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      interface{}       `json:"id"`
}

// Response is the general form of a JSON-RPC response.  The type of the
// Result field varies from one command to the next, so it is implemented
// as an interface.  The ID field has to be a pointer to allow for a nil
// value when empty.
type Response struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
	ID     *interface{}    `json:"id"`
}

// IsValidIDType checks that the ID field (which can go in any of the
// JSON-RPC requests, responses, or notifications) is valid.  JSON-RPC 1.0
// allows any valid JSON type.  JSON-RPC 2.0 (which fuegowallet follows for
// ids) only allows string, number, or null, so this function restricts the
// allowed types to that list.
func IsValidIDType(id interface{}) bool {
	switch id.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		string,
		nil:
		return true
	default:
		return false
	}
}

// NewResponse returns a new JSON-RPC response object given the provided id,
// marshalled result, and RPC error.  This function is only provided in case
// the caller wants to construct raw responses for some reason.  Typically
// callers will instead want to create the fully marshalled JSON-RPC
// response to send over the wire with MarshalResponse.
func NewResponse(id interface{}, marshalledResult []byte, rpcErr *RPCError) (*Response, error) {
	if !IsValidIDType(id) {
		str := fmt.Sprintf("the id of type '%T' is invalid", id)
		return nil, makeError(ErrRPCInvalidRequest, str)
	}

	pid := &id
	return &Response{
		Result: marshalledResult,
		Error:  rpcErr,
		ID:     pid,
	}, nil
}

// MarshalResponse marshals the passed id, result, and RPCError to a JSON-RPC
// response byte slice that is suitable for transmission to a JSON-RPC
// client.
func MarshalResponse(id interface{}, result interface{}, rpcErr *RPCError) ([]byte, error) {
	marshalledResult, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	response, err := NewResponse(id, marshalledResult, rpcErr)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&response)
}

// MarshalCmd marshals the passed command to a JSON-RPC request byte slice
// that is suitable for transmission to an RPC server.  The command is
// looked up in the registered method list by its concrete type.
func MarshalCmd(id interface{}, cmd interface{}) ([]byte, error) {
	method, err := CmdMethod(cmd)
	if err != nil {
		return nil, err
	}
	if id != nil && !IsValidIDType(id) {
		str := fmt.Sprintf("the id of type '%T' is invalid", id)
		return nil, makeError(ErrRPCInvalidRequest, str)
	}

	params, err := marshalParams(cmd)
	if err != nil {
		return nil, err
	}

	return json.Marshal(&Request{
		Jsonrpc: "1.0",
		Method:  method,
		Params:  params,
		ID:      id,
	})
}

// makeError is a convenience function to make an RPCError for internal use.
func makeError(code RPCErrorCode, message string) *RPCError {
	return &RPCError{Code: code, Message: message}
}
