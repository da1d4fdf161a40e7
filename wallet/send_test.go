// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"sync"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
	"github.com/fuegosuite/fuegowallet/wallet/rules"
)

// TestSend verifies a successful transfer debits the amount plus fee from
// both balances and records the transaction in the history.
func TestSend(t *testing.T) {
	t.Parallel()

	balance := unit.Amount(100 * unit.AtomicPerCoin)
	amount := unit.Amount(10 * unit.AtomicPerCoin)
	dest := testAddress('b')

	h := newTestWallet(t, balance)
	client := h.w.NtfnServer.Subscribe()
	defer client.Done()

	rec, err := h.w.Send(dest, amount, fn.Some("order-42"), 5)
	require.NoError(t, err)

	require.Equal(t, -amount, rec.Amount)
	require.Equal(t, rules.MinimumFee, rec.Fee)
	require.Equal(t, dest, rec.Counterparty)
	require.Equal(t, "order-42", rec.PaymentID)
	require.NotEmpty(t, rec.ID)
	require.NotEmpty(t, rec.Hash)

	snap := h.w.Snapshot()
	wantBalance := balance - amount - rules.MinimumFee
	require.Equal(t, wantBalance, snap.Account.Balance)
	require.Equal(t, wantBalance, snap.Account.UnlockedBalance)

	select {
	case n := <-client.C():
		created, ok := n.(TransactionCreated)
		require.True(t, ok, "unexpected notification %T", n)
		require.Equal(t, rec.ID, created.TxID)
		require.Equal(t, -amount, created.Amount)
	case <-time.After(5 * time.Second):
		t.Fatal("no transaction notification")
	}

	txs, err := h.w.ListTransactions(0, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, rec.ID, txs[0].ID)
	require.Equal(t, -amount, txs[0].Amount)
	require.Equal(t, "order-42", txs[0].PaymentID)
}

// TestSendValidation exercises the argument checks.  None of them may
// touch the balances.
func TestSendValidation(t *testing.T) {
	t.Parallel()

	balance := unit.Amount(10 * unit.AtomicPerCoin)
	dest := testAddress('b')

	h := newTestWallet(t, balance)

	_, err := h.w.Send(dest, 0, fn.None[string](), 5)
	require.True(t, IsError(err, ErrInvalidArgument))

	_, err = h.w.Send(dest, -1, fn.None[string](), 5)
	require.True(t, IsError(err, ErrInvalidArgument))

	_, err = h.w.Send(dest, unit.AtomicPerCoin, fn.None[string](),
		rules.MixinMax+1)
	require.True(t, IsError(err, ErrInvalidArgument))

	_, err = h.w.Send("firetooshort", unit.AtomicPerCoin,
		fn.None[string](), 5)
	require.True(t, IsError(err, ErrBadAddress))

	// The balance alone is not enough; the fee must be covered too.
	_, err = h.w.Send(dest, balance, fn.None[string](), 5)
	require.True(t, IsError(err, ErrInsufficientFunds))

	snap := h.w.Snapshot()
	require.Equal(t, balance, snap.Account.Balance)
	require.Equal(t, balance, snap.Account.UnlockedBalance)

	txs, err := h.w.ListTransactions(0, 0)
	require.NoError(t, err)
	require.Empty(t, txs)
}

// TestSendExecutorFailure verifies that an executor failure propagates and
// leaves the balances untouched.
func TestSendExecutorFailure(t *testing.T) {
	t.Parallel()

	balance := unit.Amount(10 * unit.AtomicPerCoin)
	h := newTestWallet(t, balance)

	h.executor.SetFailing(true)
	_, err := h.w.Send(testAddress('b'), unit.AtomicPerCoin,
		fn.None[string](), 5)
	require.True(t, IsError(err, ErrNetwork))

	snap := h.w.Snapshot()
	require.Equal(t, balance, snap.Account.Balance)
	require.Equal(t, balance, snap.Account.UnlockedBalance)
}

// TestSendMarksAddressUsed verifies a send to a known address book entry
// counts as a use of that entry.
func TestSendMarksAddressUsed(t *testing.T) {
	t.Parallel()

	dest := testAddress('c')
	h := newTestWallet(t, unit.Amount(10*unit.AtomicPerCoin))

	added, err := h.w.AddAddressBookEntry(dest, "merchant", "")
	require.NoError(t, err)
	require.True(t, added)

	_, err = h.w.Send(dest, unit.AtomicPerCoin, fn.None[string](), 5)
	require.NoError(t, err)

	entry, ok := h.w.AddressBookEntry(dest)
	require.True(t, ok)
	require.Equal(t, uint64(1), entry.UseCount)
}

// TestConcurrentSends runs more concurrent sends than the balance covers
// and verifies the balance never goes negative: the excess sends fail
// with ErrInsufficientFunds and the final balance accounts exactly for
// the successes.
func TestConcurrentSends(t *testing.T) {
	t.Parallel()

	const (
		affordable = 5
		attempts   = 12
	)
	amount := unit.Amount(unit.AtomicPerCoin)
	perSend := amount + rules.MinimumFee
	balance := affordable * perSend

	h := newTestWallet(t, balance)
	dest := testAddress('d')

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		sent, failed int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.w.Send(dest, amount, fn.None[string](), 5)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				sent++
			case IsError(err, ErrInsufficientFunds):
				failed++
			default:
				t.Errorf("unexpected send error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, affordable, sent)
	require.Equal(t, attempts-affordable, failed)

	snap := h.w.Snapshot()
	require.Zero(t, snap.Account.Balance)
	require.Zero(t, snap.Account.UnlockedBalance)
}

// TestListTransactionsConfirmations verifies confirmation counts are
// computed against the network height at read time.
func TestListTransactionsConfirmations(t *testing.T) {
	t.Parallel()

	h := newTestWallet(t, unit.Amount(100*unit.AtomicPerCoin))
	h.connect(t)

	// Sync to the tip so the record lands at the current height.
	for h.w.Snapshot().Network.SyncHeight < testNetworkHeight {
		h.w.syncTick()
	}

	rec, err := h.w.Send(testAddress('b'), unit.AtomicPerCoin,
		fn.None[string](), 5)
	require.NoError(t, err)
	require.Equal(t, testNetworkHeight, rec.Height)

	txs, err := h.w.ListTransactions(0, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Zero(t, txs[0].Confirmations)
	require.False(t, txs[0].Confirmed)

	// Advance the chain past the confirmation depth.
	h.oracle.setHeight(testNetworkHeight + confirmationDepth)
	h.w.syncTick()

	txs, err = h.w.ListTransactions(0, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, uint64(confirmationDepth), txs[0].Confirmations)
	require.True(t, txs[0].Confirmed)
}

// TestEstimateFee verifies fee estimation validates its arguments the same
// way Send does.
func TestEstimateFee(t *testing.T) {
	t.Parallel()

	h := newTestWallet(t, 0)

	fee, err := h.w.EstimateFee(testAddress('b'), unit.AtomicPerCoin, 5)
	require.NoError(t, err)
	require.Equal(t, rules.MinimumFee, fee)

	_, err = h.w.EstimateFee(testAddress('b'), 0, 5)
	require.True(t, IsError(err, ErrInvalidArgument))

	_, err = h.w.EstimateFee("bogus", unit.AtomicPerCoin, 5)
	require.True(t, IsError(err, ErrBadAddress))
}
