// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fuegosuite/fuegowallet/wallet"
)

// TestErrorCodeStringer tests the stringized output for the ErrorCode type.
func TestErrorCodeStringer(t *testing.T) {
	tests := []struct {
		in   wallet.ErrorCode
		want string
	}{
		{wallet.ErrInvalidArgument, "ErrInvalidArgument"},
		{wallet.ErrBadAddress, "ErrBadAddress"},
		{wallet.ErrBadSeedPhrase, "ErrBadSeedPhrase"},
		{wallet.ErrAlreadyOpen, "ErrAlreadyOpen"},
		{wallet.ErrNotOpen, "ErrNotOpen"},
		{wallet.ErrNotConnected, "ErrNotConnected"},
		{wallet.ErrMiningActive, "ErrMiningActive"},
		{wallet.ErrDepositNotUnlocked, "ErrDepositNotUnlocked"},
		{wallet.ErrInsufficientFunds, "ErrInsufficientFunds"},
		{wallet.ErrNotFound, "ErrNotFound"},
		{wallet.ErrNoExist, "ErrNoExist"},
		{wallet.ErrOracleUnavailable, "ErrOracleUnavailable"},
		{wallet.ErrNetwork, "ErrNetwork"},
		{wallet.ErrDatabase, "ErrDatabase"},
		{wallet.ErrWrongPassphrase, "ErrWrongPassphrase"},
		{wallet.ErrLocked, "ErrLocked"},
		{0xffff, "Unknown ErrorCode (65535)"},
	}

	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\ngot: %s\nwant: %s", i, result,
				test.want)
		}
	}
}

// TestError tests the error output for the Error type.
func TestError(t *testing.T) {
	underlying := errors.New("underlying error")

	tests := []struct {
		in   wallet.Error
		want string
	}{
		{
			wallet.Error{Description: "human-readable error"},
			"human-readable error",
		},
		{
			wallet.Error{
				Description: "failed to store deposit",
				Err:         underlying,
			},
			"failed to store deposit: underlying error",
		},
	}

	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("Error #%d\ngot: %s\nwant: %s", i, result,
				test.want)
		}
	}
}

// TestIsError ensures code matching works for both wrapped and foreign
// errors.
func TestIsError(t *testing.T) {
	err := wallet.Error{
		ErrorCode:   wallet.ErrNotFound,
		Description: "no deposit with that id",
	}
	if !wallet.IsError(err, wallet.ErrNotFound) {
		t.Fatal("expected ErrNotFound match")
	}
	if wallet.IsError(err, wallet.ErrDatabase) {
		t.Fatal("unexpected ErrDatabase match")
	}
	if wallet.IsError(fmt.Errorf("plain"), wallet.ErrNotFound) {
		t.Fatal("plain error should not match")
	}
}
