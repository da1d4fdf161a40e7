// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fuegosuite/fuegowallet/chain"
	"github.com/fuegosuite/fuegowallet/netparams"
)

func testLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	return NewLoader(&netparams.MainNetParams, dir, true, 10*time.Second)
}

// TestLoaderCreateOpen walks the loader through create, unload, and
// reopen, checking the gatekeeping on each step.
func TestLoaderCreateOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := testLoader(t, dir)

	exists, err := l.WalletExists()
	require.NoError(t, err)
	require.False(t, exists)

	// Opening before creation fails.
	_, err = l.OpenExistingWallet([]byte(InsecurePubPassphrase), nil)
	require.True(t, IsError(err, ErrNoExist))

	w, err := l.CreateNewWallet(
		[]byte(InsecurePubPassphrase), testPrivPass, testSeed, 250,
	)
	require.NoError(t, err)
	require.True(t, w.ValidateAddress(w.Address()))

	loaded, ok := l.LoadedWallet()
	require.True(t, ok)
	require.Equal(t, w, loaded)

	// Only one wallet may be loaded at a time.  The sentinel carries the
	// typed already-open code.
	_, err = l.CreateNewWallet(
		[]byte(InsecurePubPassphrase), testPrivPass, nil, 0,
	)
	require.ErrorIs(t, err, ErrLoaded)
	require.True(t, IsError(err, ErrAlreadyOpen))
	_, err = l.OpenExistingWallet([]byte(InsecurePubPassphrase), nil)
	require.ErrorIs(t, err, ErrLoaded)
	require.True(t, IsError(err, ErrAlreadyOpen))

	require.NoError(t, l.UnloadWallet())
	require.ErrorIs(t, l.UnloadWallet(), ErrNotLoaded)

	_, ok = l.LoadedWallet()
	require.False(t, ok)

	// The database survives the unload but cannot be created over.
	_, err = l.CreateNewWallet(
		[]byte(InsecurePubPassphrase), testPrivPass, testSeed, 0,
	)
	require.ErrorIs(t, err, ErrExists)

	// Reopen with the private passphrase leaves the wallet unlocked and
	// carrying the state it was created with.
	w, err = l.OpenExistingWallet(
		[]byte(InsecurePubPassphrase), testPrivPass,
	)
	require.NoError(t, err)
	require.False(t, w.Locked())

	seed, err := w.store.Seed()
	require.NoError(t, err)
	require.Equal(t, testSeed, seed)

	require.NoError(t, l.UnloadWallet())
}

// TestLoaderWrongPassphrases verifies both passphrase checks on open.
func TestLoaderWrongPassphrases(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := testLoader(t, dir)

	_, err := l.CreateNewWallet(
		[]byte(InsecurePubPassphrase), testPrivPass, testSeed, 0,
	)
	require.NoError(t, err)
	require.NoError(t, l.UnloadWallet())

	_, err = l.OpenExistingWallet([]byte("wrong"), nil)
	require.True(t, IsError(err, ErrWrongPassphrase))

	// A wrong private passphrase fails the open and leaves the loader
	// reusable.
	_, err = l.OpenExistingWallet(
		[]byte(InsecurePubPassphrase), []byte("wrong"),
	)
	require.True(t, IsError(err, ErrWrongPassphrase))

	w, err := l.OpenExistingWallet([]byte(InsecurePubPassphrase), nil)
	require.NoError(t, err)
	require.True(t, w.Locked())
	require.NoError(t, l.UnloadWallet())
}

// TestLoaderBadSeed verifies seed length validation on create.
func TestLoaderBadSeed(t *testing.T) {
	t.Parallel()

	l := testLoader(t, t.TempDir())

	_, err := l.CreateNewWallet(
		[]byte(InsecurePubPassphrase), testPrivPass, []byte{1, 2, 3}, 0,
	)
	require.True(t, IsError(err, ErrBadSeedPhrase))
}

// TestLoaderRunAfterLoad verifies callbacks run in order on load and run
// immediately once a wallet is loaded.
func TestLoaderRunAfterLoad(t *testing.T) {
	t.Parallel()

	l := testLoader(t, t.TempDir())

	var order []int
	l.RunAfterLoad(func(*Wallet) { order = append(order, 1) })
	l.RunAfterLoad(func(*Wallet) { order = append(order, 2) })
	require.Empty(t, order)

	_, err := l.CreateNewWallet(
		[]byte(InsecurePubPassphrase), testPrivPass, testSeed, 0,
	)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, order)

	l.RunAfterLoad(func(*Wallet) { order = append(order, 3) })
	require.Equal(t, []int{1, 2, 3}, order)

	require.NoError(t, l.UnloadWallet())
}

// TestLoaderRestoreHeight verifies the restore height is carried into the
// session's sync position on connect.
func TestLoaderRestoreHeight(t *testing.T) {
	t.Parallel()

	oracle := newTestOracle()
	l := NewLoader(
		&netparams.MainNetParams, t.TempDir(), true, 10*time.Second,
		WithDialOracle(func(host string, port uint16) (chain.Oracle,
			error) {

			return oracle, nil
		}),
	)

	w, err := l.CreateNewWallet(
		[]byte(InsecurePubPassphrase), testPrivPass, testSeed, 12345,
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, l.UnloadWallet())
	}()

	require.NoError(t, w.Connect("localhost", 18180))
	require.Equal(t, uint64(12345), w.Snapshot().Network.SyncHeight)
}
