// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fuegosuite/fuegowallet/netparams"
	"github.com/fuegosuite/fuegowallet/pkg/unit"
	"github.com/fuegosuite/fuegowallet/wallet/rules"
)

// TestDepositLifecycle walks one deposit through its full Locked ->
// Unlocked -> Spent lifecycle, checking the balance movements on both
// ends.
func TestDepositLifecycle(t *testing.T) {
	t.Parallel()

	balance := unit.Amount(1000 * unit.AtomicPerCoin)
	amount := unit.Amount(20 * unit.AtomicPerCoin)

	h := newTestWallet(t, balance)
	h.connect(t)

	deposit, err := h.w.CreateDeposit(amount, 30)
	require.NoError(t, err)

	require.Equal(t, DepositLocked, deposit.Status)
	require.Equal(t, amount, deposit.Amount)
	require.Equal(t, uint32(30), deposit.TermDays)
	require.Equal(t, rules.DepositRateBps(30), deposit.RateBps)
	require.Equal(t, rules.DepositInterest(amount, 30), deposit.Interest)
	require.Equal(t, 0.05, deposit.Rate())
	require.Equal(t, testStartTime, deposit.CreatedAt)

	wantUnlock := testNetworkHeight +
		30*uint64(netparams.MainNetParams.BlocksPerDay)
	require.Equal(t, wantUnlock, deposit.UnlockHeight)
	require.Equal(t, testNetworkHeight, deposit.CreatingHeight)
	require.NotEmpty(t, deposit.CreatingTxID)

	// Funding the deposit debits the amount plus the executor's fee from
	// both balances.
	snap := h.w.Snapshot()
	wantBalance := balance - amount - rules.MinimumFee
	require.Equal(t, wantBalance, snap.Account.Balance)
	require.Equal(t, wantBalance, snap.Account.UnlockedBalance)

	// A locked deposit cannot be withdrawn.
	_, err = h.w.WithdrawDeposit(deposit.ID)
	require.True(t, IsError(err, ErrDepositNotUnlocked))

	// One block short of the unlock height the deposit stays locked.
	h.oracle.setHeight(wantUnlock - 1)
	h.w.syncTick()
	got, err := h.w.Deposit(deposit.ID)
	require.NoError(t, err)
	require.Equal(t, DepositLocked, got.Status)

	// At the unlock height the status is promoted on read.
	h.oracle.setHeight(wantUnlock)
	h.w.syncTick()
	got, err = h.w.Deposit(deposit.ID)
	require.NoError(t, err)
	require.Equal(t, DepositUnlocked, got.Status)

	// Withdrawal credits principal plus interest and marks the deposit
	// spent.
	rec, err := h.w.WithdrawDeposit(deposit.ID)
	require.NoError(t, err)
	require.Equal(t, amount+deposit.Interest, rec.Amount)

	snap = h.w.Snapshot()
	wantBalance += amount + deposit.Interest
	require.Equal(t, wantBalance, snap.Account.Balance)
	require.Equal(t, wantBalance, snap.Account.UnlockedBalance)

	got, err = h.w.Deposit(deposit.ID)
	require.NoError(t, err)
	require.Equal(t, DepositSpent, got.Status)
	require.NotEmpty(t, got.SpendingTxID)
	require.Equal(t, wantUnlock, got.SpendingHeight)

	// A spent deposit cannot be withdrawn again, and it stays in the
	// ledger.
	_, err = h.w.WithdrawDeposit(deposit.ID)
	require.True(t, IsError(err, ErrDepositNotUnlocked))
	require.Len(t, h.w.Deposits(), 1)
}

// TestCreateDepositValidation exercises the argument and balance checks.
func TestCreateDepositValidation(t *testing.T) {
	t.Parallel()

	balance := unit.Amount(10 * unit.AtomicPerCoin)
	h := newTestWallet(t, balance)
	h.connect(t)

	_, err := h.w.CreateDeposit(0, 30)
	require.True(t, IsError(err, ErrInvalidArgument))

	_, err = h.w.CreateDeposit(-1, 30)
	require.True(t, IsError(err, ErrInvalidArgument))

	_, err = h.w.CreateDeposit(unit.Amount(unit.AtomicPerCoin), 0)
	require.True(t, IsError(err, ErrInvalidArgument))

	// The full balance cannot be deposited since the funding fee must be
	// covered too.
	_, err = h.w.CreateDeposit(balance, 30)
	require.True(t, IsError(err, ErrInsufficientFunds))

	// Balance minus fee is exactly affordable.
	deposit, err := h.w.CreateDeposit(balance-rules.MinimumFee, 30)
	require.NoError(t, err)
	require.Equal(t, balance-rules.MinimumFee, deposit.Amount)

	snap := h.w.Snapshot()
	require.Zero(t, snap.Account.Balance)
	require.Zero(t, snap.Account.UnlockedBalance)
}

// TestWithdrawUnknownDeposit verifies the not-found path.
func TestWithdrawUnknownDeposit(t *testing.T) {
	t.Parallel()

	h := newTestWallet(t, 0)
	h.connect(t)

	_, err := h.w.WithdrawDeposit(uuid.New())
	require.True(t, IsError(err, ErrNotFound))

	_, err = h.w.Deposit(uuid.New())
	require.True(t, IsError(err, ErrNotFound))
}

// TestDepositExecutorFailure verifies that a failed funding transfer
// leaves the balances and the ledger untouched.
func TestDepositExecutorFailure(t *testing.T) {
	t.Parallel()

	balance := unit.Amount(100 * unit.AtomicPerCoin)
	h := newTestWallet(t, balance)
	h.connect(t)

	h.executor.SetFailing(true)
	_, err := h.w.CreateDeposit(unit.Amount(unit.AtomicPerCoin), 30)
	require.True(t, IsError(err, ErrNetwork))

	snap := h.w.Snapshot()
	require.Equal(t, balance, snap.Account.Balance)
	require.Equal(t, balance, snap.Account.UnlockedBalance)
	require.Empty(t, h.w.Deposits())
}

// TestDepositsPersist verifies the ledger is reloaded from the store in
// creation order when the session is reopened.
func TestDepositsPersist(t *testing.T) {
	t.Parallel()

	balance := unit.Amount(1000 * unit.AtomicPerCoin)
	h := newTestWallet(t, balance)
	h.connect(t)

	first, err := h.w.CreateDeposit(unit.Amount(5*unit.AtomicPerCoin), 30)
	require.NoError(t, err)
	second, err := h.w.CreateDeposit(unit.Amount(7*unit.AtomicPerCoin), 200)
	require.NoError(t, err)

	// Rebuild the session over the same store.
	h.w.Stop()
	h.w.WaitForShutdown()

	reopened, err := Open(&Config{
		ChainParams: &netparams.MainNetParams,
		Store:       h.w.store,
		Executor:    h.executor,
		Clock:       h.clock,
	})
	require.NoError(t, err)
	reopened.Start()
	defer func() {
		reopened.Stop()
		reopened.WaitForShutdown()
	}()

	deposits := reopened.Deposits()
	require.Len(t, deposits, 2)
	require.Equal(t, first.ID, deposits[0].ID)
	require.Equal(t, second.ID, deposits[1].ID)
	require.Equal(t, first.Interest, deposits[0].Interest)
	require.Equal(t, rules.DepositRateBps(200), deposits[1].RateBps)
}
