// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
	"github.com/fuegosuite/fuegowallet/txhist"
	"github.com/fuegosuite/fuegowallet/wallet/rules"
)

// confirmationDepth is the number of blocks after which a transaction is
// reported as confirmed.
const confirmationDepth = 10

// TxRecord is the session's view of a transaction it created.  A record
// is immutable once created except for the confirmation count, which only
// grows as the sync height advances past the transaction's height.
type TxRecord struct {
	ID            string
	Hash          string
	Amount        unit.Amount
	Fee           unit.Amount
	Timestamp     time.Time
	Height        uint64
	Confirmations uint64
	Confirmed     bool
	Counterparty  string
	PaymentID     string
}

// Send validates and executes a transfer of the given amount to the
// destination address.  On executor success the spendable balances are
// debited by the amount plus fee and the transaction is recorded, all
// under one lock acquisition; on any failure the balances are untouched.
func (w *Wallet) Send(dest string, amount unit.Amount,
	paymentID fn.Option[string], mixin uint8) (*TxRecord, error) {

	if amount <= 0 {
		return nil, walletError(ErrInvalidArgument, "send amount "+
			"must be positive", nil)
	}
	if !rules.ValidMixin(mixin) {
		return nil, walletError(ErrInvalidArgument, fmt.Sprintf(
			"mixin %d exceeds the maximum of %d", mixin,
			rules.MixinMax), nil)
	}
	if !w.chainParams.ValidAddress(dest) {
		return nil, walletError(ErrBadAddress, "destination is not "+
			"a valid address for this network", nil)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.account.open {
		return nil, walletError(ErrNotOpen, "no wallet session is "+
			"open", nil)
	}

	fee, err := w.executor.EstimateFee(dest, amount, mixin)
	if err != nil {
		return nil, err
	}
	if amount+fee > w.account.unlockedBalance {
		return nil, walletError(ErrInsufficientFunds, fmt.Sprintf(
			"%v plus fee %v exceeds unlocked balance %v", amount,
			fee, w.account.unlockedBalance), nil)
	}

	ref, err := w.executor.Send(dest, amount, paymentID, mixin)
	if err != nil {
		return nil, err
	}

	w.account.balance -= amount + ref.Fee
	w.account.unlockedBalance -= amount + ref.Fee
	if err := w.persistAccountLocked(); err != nil {
		return nil, err
	}

	rec := w.recordTransactionLocked(ref, -amount, dest, paymentID)

	// A send to a known address book entry counts as a use.
	if _, err := w.markAddressUsedLocked(dest); err != nil {
		log.Warnf("Failed to mark %v used: %v", dest, err)
	}

	log.Infof("Sent %v to %v (tx %v, fee %v)", amount, dest, ref.TxID,
		ref.Fee)

	w.NtfnServer.notify(TransactionCreated{
		TxID:   rec.ID,
		Amount: rec.Amount,
	})
	return rec, nil
}

// EstimateFee returns the fee a transfer of the given shape would pay.
func (w *Wallet) EstimateFee(dest string, amount unit.Amount,
	mixin uint8) (unit.Amount, error) {

	if amount <= 0 {
		return 0, walletError(ErrInvalidArgument, "amount must be "+
			"positive", nil)
	}
	if !rules.ValidMixin(mixin) {
		return 0, walletError(ErrInvalidArgument, fmt.Sprintf(
			"mixin %d exceeds the maximum of %d", mixin,
			rules.MixinMax), nil)
	}
	if !w.chainParams.ValidAddress(dest) {
		return 0, walletError(ErrBadAddress, "destination is not a "+
			"valid address for this network", nil)
	}
	return w.executor.EstimateFee(dest, amount, mixin)
}

// recordTransactionLocked appends a transaction to the history store and
// returns the session's record of it.  History failures are logged, not
// propagated: the transfer has already happened and the balances are
// authoritative.  The session lock must be held.
func (w *Wallet) recordTransactionLocked(ref *TxRef, amount unit.Amount,
	counterparty string, paymentID fn.Option[string]) *TxRecord {

	rec := &TxRecord{
		ID:           ref.TxID.String(),
		Hash:         ref.TxHash,
		Amount:       amount,
		Fee:          ref.Fee,
		Timestamp:    w.clock.Now(),
		Height:       w.network.syncHeight,
		Counterparty: counterparty,
		PaymentID:    paymentID.UnwrapOr(""),
	}

	if w.history != nil {
		err := w.history.InsertTx(&txhist.Record{
			ID:           rec.ID,
			Hash:         rec.Hash,
			Amount:       rec.Amount,
			Fee:          rec.Fee,
			Timestamp:    rec.Timestamp,
			Height:       rec.Height,
			Counterparty: rec.Counterparty,
			PaymentID:    rec.PaymentID,
		})
		if err != nil {
			log.Errorf("Failed to record transaction %v in "+
				"history: %v", rec.ID, err)
		}
	}
	return rec
}

// ListTransactions returns up to limit transactions from the history
// store, newest first, skipping offset records.  Confirmation counts are
// computed against the current network height at read time.
func (w *Wallet) ListTransactions(limit, offset int) ([]TxRecord, error) {
	w.mu.Lock()
	tip := w.network.networkHeight
	w.mu.Unlock()

	if w.history == nil {
		return nil, nil
	}
	recs, err := w.history.ListTransactions(limit, offset)
	if err != nil {
		return nil, walletError(ErrDatabase, "failed to list "+
			"transactions", err)
	}

	txs := make([]TxRecord, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		tx := TxRecord{
			ID:           rec.ID,
			Hash:         rec.Hash,
			Amount:       rec.Amount,
			Fee:          rec.Fee,
			Timestamp:    rec.Timestamp,
			Height:       rec.Height,
			Counterparty: rec.Counterparty,
			PaymentID:    rec.PaymentID,
		}
		if tip > rec.Height {
			tx.Confirmations = tip - rec.Height
		}
		tx.Confirmed = tx.Confirmations >= confirmationDepth
		txs = append(txs, tx)
	}
	return txs, nil
}
