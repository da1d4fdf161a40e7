// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wstore

import "fmt"

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrDatabase indicates a generic error with the underlying database.
	// When this error code is set, the Err field of the Error will be set
	// to the underlying error returned from the database.
	ErrDatabase ErrorCode = iota

	// ErrNoExist indicates that the store buckets do not exist in the
	// database, meaning the wallet was never created there.
	ErrNoExist

	// ErrAlreadyExists indicates an attempt to create a store in a
	// database that already contains one.
	ErrAlreadyExists

	// ErrCrypto indicates a failure sealing or opening secret material.
	ErrCrypto

	// ErrWrongPassphrase indicates that the supplied passphrase does not
	// match the one the store was created with.
	ErrWrongPassphrase

	// ErrLocked indicates an attempt to read secret material while the
	// store is locked.
	ErrLocked

	// ErrData indicates that a stored record failed to decode.  This
	// either means the database is corrupt or an old record format was
	// left behind by an incomplete migration.
	ErrData
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrDatabase:        "ErrDatabase",
	ErrNoExist:         "ErrNoExist",
	ErrAlreadyExists:   "ErrAlreadyExists",
	ErrCrypto:          "ErrCrypto",
	ErrWrongPassphrase: "ErrWrongPassphrase",
	ErrLocked:          "ErrLocked",
	ErrData:            "ErrData",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error provides a single type for errors that can happen during store
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

// storeError creates an Error given a set of arguments.
func storeError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsError returns whether the error is an Error with a matching error code.
func IsError(err error, code ErrorCode) bool {
	serr, ok := err.(Error)
	return ok && serr.ErrorCode == code
}
