// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestKeysExport verifies key material export round-trips the seed phrase
// and requires the private passphrase.
func TestKeysExport(t *testing.T) {
	t.Parallel()

	h := newTestWallet(t, 0)

	_, err := h.w.Keys([]byte("wrong passphrase"))
	require.True(t, IsError(err, ErrWrongPassphrase))

	keys, err := h.w.Keys(testPrivPass)
	require.NoError(t, err)
	require.True(t, keys.HasKeys)
	require.NotEmpty(t, keys.ViewKey)
	require.NotEmpty(t, keys.SpendKey)
	require.NotEqual(t, keys.ViewKey, keys.SpendKey)

	// The exported phrase decodes back to the wallet seed.
	seed, err := SeedFromPhrase(keys.SeedPhrase)
	require.NoError(t, err)
	require.Equal(t, testSeed, seed)

	phrase, err := h.w.SeedPhrase(testPrivPass)
	require.NoError(t, err)
	require.Equal(t, keys.SeedPhrase, phrase)
}

// TestSeedFromPhrase verifies checksum and length validation.
func TestSeedFromPhrase(t *testing.T) {
	t.Parallel()

	_, err := SeedFromPhrase("stairway aardvark")
	require.True(t, IsError(err, ErrBadSeedPhrase))

	_, err = SeedFromPhrase("")
	require.True(t, IsError(err, ErrBadSeedPhrase))
}

// TestNewAddress verifies derivation advances the address index, persists
// it, and records the new address in the address book.
func TestNewAddress(t *testing.T) {
	t.Parallel()

	h := newTestWallet(t, 0)

	// Derivation needs the seed, so the wallet must be unlocked.
	_, err := h.w.NewAddress("savings")
	require.True(t, IsError(err, ErrLocked))

	require.NoError(t, h.w.Unlock(testPrivPass))

	addr, err := h.w.NewAddress("savings")
	require.NoError(t, err)
	require.True(t, h.w.ValidateAddress(addr))
	require.NotEqual(t, h.w.Address(), addr)

	entry, ok := h.w.AddressBookEntry(addr)
	require.True(t, ok)
	require.Equal(t, "savings", entry.Label)

	// A second derivation yields a different address.
	addr2, err := h.w.NewAddress("savings 2")
	require.NoError(t, err)
	require.NotEqual(t, addr, addr2)
}

// TestValidateAddress exercises the network address format check.
func TestValidateAddress(t *testing.T) {
	t.Parallel()

	h := newTestWallet(t, 0)

	tests := []struct {
		name  string
		addr  string
		valid bool
	}{
		{"well formed", testAddress('a'), true},
		{"too short", "fireabc", false},
		{"wrong prefix", "cold" + testAddress('a')[4:], false},
		{"uppercase body", testAddress('A'), false},
		{"non-hex body", testAddress('g'), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.valid,
				h.w.ValidateAddress(test.addr))
		})
	}
}
