// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package legacyrpc

import (
	"errors"

	"github.com/fuegosuite/fuegowallet/rpc/jsonrpc"
	"github.com/fuegosuite/fuegowallet/wallet"
)

// Error types to simplify the reporting of specific categories of
// errors, and their *jsonrpc.RPCError creation.
type (
	// DeserializationError describes a failed deserializaion due to bad
	// user input.  It corresponds to jsonrpc.ErrRPCDeserialization.
	DeserializationError struct {
		error
	}

	// InvalidParameterError describes an invalid parameter passed by
	// the user.  It corresponds to jsonrpc.ErrRPCInvalidParameter.
	InvalidParameterError struct {
		error
	}

	// ParseError describes a failed parse due to bad user input.  It
	// corresponds to jsonrpc.ErrRPCParse.
	ParseError struct {
		error
	}
)

// Errors variables that are defined once here to avoid duplication below.
var (
	ErrNeedPositiveAmount = InvalidParameterError{
		errors.New("amount must be positive"),
	}

	ErrUnloadedWallet = jsonrpc.RPCError{
		Code:    jsonrpc.ErrRPCWallet,
		Message: "Request requires a wallet but wallet has not loaded yet",
	}

	ErrWalletUnlockNeeded = jsonrpc.RPCError{
		Code:    jsonrpc.ErrRPCWalletUnlockNeeded,
		Message: "Enter the wallet passphrase with walletpassphrase first",
	}

	ErrNotConnected = jsonrpc.RPCError{
		Code:    jsonrpc.ErrRPCClientNotConnected,
		Message: "No node connection, connect with connectnode first",
	}
)

// jsonError creates a JSON-RPC error from the Go error passed to it.
// Wallet session errors are translated to the matching client-visible
// code; anything else falls back to the catch-all wallet error code.
func jsonError(err error) *jsonrpc.RPCError {
	if err == nil {
		return nil
	}

	code := jsonrpc.ErrRPCWallet
	switch e := err.(type) {
	case jsonrpc.RPCError:
		return &e
	case *jsonrpc.RPCError:
		return e
	case DeserializationError:
		code = jsonrpc.ErrRPCDeserialization
	case InvalidParameterError:
		code = jsonrpc.ErrRPCInvalidParameter
	case ParseError:
		code = jsonrpc.ErrRPCParse
	case wallet.Error:
		code = walletErrorCode(e.ErrorCode)
	case *wallet.Error:
		code = walletErrorCode(e.ErrorCode)
	}
	return &jsonrpc.RPCError{
		Code:    code,
		Message: err.Error(),
	}
}

// walletErrorCode maps a wallet session error code to the JSON-RPC code
// reported to clients.
func walletErrorCode(code wallet.ErrorCode) jsonrpc.RPCErrorCode {
	switch code {
	case wallet.ErrInvalidArgument, wallet.ErrBadAddress,
		wallet.ErrBadSeedPhrase:

		return jsonrpc.ErrRPCInvalidParameter

	case wallet.ErrInsufficientFunds:
		return jsonrpc.ErrRPCWalletInsufficientFunds

	case wallet.ErrWrongPassphrase:
		return jsonrpc.ErrRPCWalletPassphraseIncorrect

	case wallet.ErrLocked:
		return jsonrpc.ErrRPCWalletUnlockNeeded

	case wallet.ErrNotConnected, wallet.ErrOracleUnavailable,
		wallet.ErrNetwork:

		return jsonrpc.ErrRPCClientNotConnected

	case wallet.ErrNotFound, wallet.ErrNoExist:
		return jsonrpc.ErrRPCWalletNotFound

	default:
		return jsonrpc.ErrRPCWallet
	}
}
