// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import "fmt"

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInvalidArgument indicates that a caller-supplied value is out of
	// range or otherwise malformed, such as a zero deposit term or a
	// mining thread count outside the supported bounds.
	ErrInvalidArgument ErrorCode = iota

	// ErrBadAddress indicates that an address string does not parse as a
	// valid address for the active network.
	ErrBadAddress

	// ErrBadSeedPhrase indicates that a seed phrase failed validation,
	// either structurally or due to a checksum mismatch.
	ErrBadSeedPhrase

	// ErrAlreadyOpen indicates an attempt to open or create a wallet
	// while another wallet is already loaded.
	ErrAlreadyOpen

	// ErrNotOpen indicates an operation that requires a loaded wallet
	// was invoked without one.
	ErrNotOpen

	// ErrNotConnected indicates an operation that requires an attached
	// node connection was invoked without one.
	ErrNotConnected

	// ErrMiningActive indicates an attempt to start mining while the
	// mining engine is already running.
	ErrMiningActive

	// ErrDepositNotUnlocked indicates an attempt to withdraw a deposit
	// that is still locked or has already been spent.
	ErrDepositNotUnlocked

	// ErrInsufficientFunds indicates that the spendable balance does not
	// cover the requested amount plus fee.
	ErrInsufficientFunds

	// ErrNotFound indicates that the requested entry is not known, such
	// as an unknown deposit id or address book entry.
	ErrNotFound

	// ErrNoExist indicates that the wallet database does not exist where
	// one was expected.
	ErrNoExist

	// ErrOracleUnavailable indicates that the network oracle could not
	// be reached or returned a failure while refreshing network facts.
	ErrOracleUnavailable

	// ErrNetwork indicates that a relay or node interaction failed after
	// a connection had been established.  When this error code is set,
	// the Err field of the Error will be set to the underlying error.
	ErrNetwork

	// ErrDatabase indicates an error with the underlying wallet store.
	// When this error code is set, the Err field of the Error will be
	// set to the underlying error returned from the database.
	ErrDatabase

	// ErrWrongPassphrase indicates that the supplied passphrase does not
	// match the one the wallet's key material was sealed with.
	ErrWrongPassphrase

	// ErrLocked indicates an attempt to use private key material while
	// the wallet is locked.
	ErrLocked
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidArgument:    "ErrInvalidArgument",
	ErrBadAddress:         "ErrBadAddress",
	ErrBadSeedPhrase:      "ErrBadSeedPhrase",
	ErrAlreadyOpen:        "ErrAlreadyOpen",
	ErrNotOpen:            "ErrNotOpen",
	ErrNotConnected:       "ErrNotConnected",
	ErrMiningActive:       "ErrMiningActive",
	ErrDepositNotUnlocked: "ErrDepositNotUnlocked",
	ErrInsufficientFunds:  "ErrInsufficientFunds",
	ErrNotFound:           "ErrNotFound",
	ErrNoExist:            "ErrNoExist",
	ErrOracleUnavailable:  "ErrOracleUnavailable",
	ErrNetwork:            "ErrNetwork",
	ErrDatabase:           "ErrDatabase",
	ErrWrongPassphrase:    "ErrWrongPassphrase",
	ErrLocked:             "ErrLocked",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error provides a single type for errors that can happen during wallet
// operation.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying error, if any.
func (e Error) Unwrap() error {
	return e.Err
}

// walletError creates an Error given a set of arguments.
func walletError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsError returns whether the error is an Error with a matching error code.
func IsError(err error, code ErrorCode) bool {
	werr, ok := err.(Error)
	return ok && werr.ErrorCode == code
}
