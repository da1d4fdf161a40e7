// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
)

// TestSessionLifecycle verifies open, stop, and the shutdown flag.
func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	h := newTestWallet(t, 0)

	snap := h.w.Snapshot()
	require.True(t, snap.Account.Open)
	require.False(t, snap.Account.Connected)
	require.Equal(t, testAddress('0'), snap.Account.Address)
	require.False(t, h.w.ShuttingDown())

	h.connect(t)
	require.True(t, h.w.Snapshot().Account.Connected)

	h.w.Stop()
	h.w.WaitForShutdown()

	require.True(t, h.w.ShuttingDown())
	snap = h.w.Snapshot()
	require.False(t, snap.Account.Open)
	require.False(t, snap.Account.Connected)
	require.Equal(t, ConnDisconnected, snap.Network.Connection)
}

// TestLockUnlock verifies passphrase handling at the session level.
func TestLockUnlock(t *testing.T) {
	t.Parallel()

	h := newTestWallet(t, 0)

	require.True(t, h.w.Locked())

	err := h.w.Unlock([]byte("wrong passphrase"))
	require.True(t, IsError(err, ErrWrongPassphrase))
	require.True(t, h.w.Locked())

	require.NoError(t, h.w.Unlock(testPrivPass))
	require.False(t, h.w.Locked())

	h.w.Lock()
	require.True(t, h.w.Locked())
}

// TestCreditBalance verifies incoming funds move both balances and reject
// non-positive amounts.
func TestCreditBalance(t *testing.T) {
	t.Parallel()

	balance := unit.Amount(10 * unit.AtomicPerCoin)
	h := newTestWallet(t, balance)

	credit := unit.Amount(3 * unit.AtomicPerCoin)
	require.NoError(t, h.w.CreditBalance(credit))

	snap := h.w.Snapshot()
	require.Equal(t, balance+credit, snap.Account.Balance)
	require.Equal(t, balance+credit, snap.Account.UnlockedBalance)

	err := h.w.CreditBalance(0)
	require.True(t, IsError(err, ErrInvalidArgument))
	err = h.w.CreditBalance(-1)
	require.True(t, IsError(err, ErrInvalidArgument))
}

// TestConnectReconnect verifies reconnecting tears the old oracle down and
// resets the sync position.
func TestConnectReconnect(t *testing.T) {
	t.Parallel()

	h := newTestWallet(t, 0)
	h.connect(t)

	h.w.syncTick()
	require.Equal(t, testSyncStep, h.w.Snapshot().Network.SyncHeight)

	// A second connect is a disconnect/connect cycle: the sync position
	// restarts from the restore height.
	h.connect(t)

	snap := h.w.Snapshot()
	require.Equal(t, ConnRPC, snap.Network.Connection)
	require.Equal(t, uint64(0), snap.Network.SyncHeight)
	require.True(t, snap.Network.Syncing)
}

// TestBlockInfo verifies the oracle passthrough and its error paths.
func TestBlockInfo(t *testing.T) {
	t.Parallel()

	h := newTestWallet(t, 0)

	_, err := h.w.BlockInfo(1)
	require.True(t, IsError(err, ErrNotConnected))

	h.connect(t)

	info, err := h.w.BlockInfo(100)
	require.NoError(t, err)
	require.Equal(t, uint64(100), info.Height)

	_, err = h.w.BlockInfo(testNetworkHeight + 1)
	require.True(t, IsError(err, ErrOracleUnavailable))
}
