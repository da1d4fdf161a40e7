// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
	"github.com/fuegosuite/fuegowallet/wallet/rules"
	"github.com/fuegosuite/fuegowallet/wstore"
)

// DepositStatus describes where a term deposit is in its lifecycle.  The
// transitions are strictly monotonic: Locked -> Unlocked -> Spent.
type DepositStatus uint8

// The term deposit states.
const (
	DepositLocked DepositStatus = iota
	DepositUnlocked
	DepositSpent
)

// String returns the deposit status as a human-readable name.
func (s DepositStatus) String() string {
	switch s {
	case DepositLocked:
		return "locked"
	case DepositUnlocked:
		return "unlocked"
	case DepositSpent:
		return "spent"
	default:
		return "unknown"
	}
}

// Deposit is a term deposit tracked by the session's deposit ledger.
// Deposits are never deleted; a withdrawn deposit stays in the ledger
// marked spent.
type Deposit struct {
	ID             uuid.UUID
	Amount         unit.Amount
	TermDays       uint32
	RateBps        uint32
	Interest       unit.Amount
	Status         DepositStatus
	UnlockHeight   uint64
	CreatingTxID   string
	CreatingHeight uint64
	SpendingTxID   string
	SpendingHeight uint64
	CreatedAt      time.Time
}

// Rate returns the deposit's annualized interest rate as a ratio.
func (d *Deposit) Rate() float64 {
	return float64(d.RateBps) / rules.RateDivisor
}

// CreateDeposit locks the given amount for the given term.  The funds are
// moved by the transfer executor; on success the spendable balances are
// debited by the amount plus the funding fee, atomically with the ledger
// record.  The interest rate is fixed at creation from the term schedule.
func (w *Wallet) CreateDeposit(amount unit.Amount,
	termDays uint32) (*Deposit, error) {

	if amount <= 0 {
		return nil, walletError(ErrInvalidArgument, "deposit amount "+
			"must be positive", nil)
	}
	if termDays == 0 {
		return nil, walletError(ErrInvalidArgument, "deposit term "+
			"must be at least one day", nil)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.account.open {
		return nil, walletError(ErrNotOpen, "no wallet session is "+
			"open", nil)
	}

	fee, err := w.executor.EstimateFee(
		w.account.address, amount, rules.DefaultMixin,
	)
	if err != nil {
		return nil, err
	}
	if amount+fee > w.account.unlockedBalance {
		return nil, walletError(ErrInsufficientFunds, fmt.Sprintf(
			"deposit of %v plus fee %v exceeds unlocked balance "+
				"%v", amount, fee, w.account.unlockedBalance),
			nil)
	}

	ref, err := w.executor.Send(
		w.account.address, amount, fn.None[string](),
		rules.DefaultMixin,
	)
	if err != nil {
		return nil, err
	}

	deposit := &Deposit{
		ID:             uuid.New(),
		Amount:         amount,
		TermDays:       termDays,
		RateBps:        rules.DepositRateBps(termDays),
		Interest:       rules.DepositInterest(amount, termDays),
		Status:         DepositLocked,
		UnlockHeight: w.network.networkHeight +
			uint64(termDays)*uint64(w.chainParams.BlocksPerDay),
		CreatingTxID:   ref.TxID.String(),
		CreatingHeight: w.network.networkHeight,
		CreatedAt:      w.clock.Now(),
	}

	if err := w.store.PutDeposit(depositToRecord(deposit)); err != nil {
		return nil, walletError(ErrDatabase, "failed to persist "+
			"deposit", err)
	}

	w.account.balance -= amount + ref.Fee
	w.account.unlockedBalance -= amount + ref.Fee
	w.deposits = append(w.deposits, deposit)
	if err := w.persistAccountLocked(); err != nil {
		return nil, err
	}

	w.recordTransactionLocked(ref, -amount, w.account.address,
		fn.None[string]())

	log.Infof("Created deposit %v: %v for %d days at %d bps (unlocks "+
		"at height %d)", deposit.ID, amount, termDays,
		deposit.RateBps, deposit.UnlockHeight)

	w.NtfnServer.notify(DepositCreated{
		ID:           deposit.ID.String(),
		Amount:       amount,
		UnlockHeight: deposit.UnlockHeight,
	})

	dep := *deposit
	return &dep, nil
}

// WithdrawDeposit spends an unlocked deposit, crediting its amount plus
// the earned interest back to the spendable balances.  A deposit whose
// unlock height has passed is promoted to unlocked here; withdrawing a
// deposit that is still locked or already spent fails.
func (w *Wallet) WithdrawDeposit(id uuid.UUID) (*TxRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.account.open {
		return nil, walletError(ErrNotOpen, "no wallet session is "+
			"open", nil)
	}

	deposit := w.depositByIDLocked(id)
	if deposit == nil {
		return nil, walletError(ErrNotFound, fmt.Sprintf("no deposit "+
			"with id %v", id), nil)
	}

	w.promoteDepositLocked(deposit)
	if deposit.Status != DepositUnlocked {
		return nil, walletError(ErrDepositNotUnlocked, fmt.Sprintf(
			"deposit %v is %v", id, deposit.Status), nil)
	}

	credit := deposit.Amount + deposit.Interest
	ref, err := w.executor.Send(
		w.account.address, credit, fn.None[string](),
		rules.DefaultMixin,
	)
	if err != nil {
		return nil, err
	}

	deposit.Status = DepositSpent
	deposit.SpendingTxID = ref.TxID.String()
	deposit.SpendingHeight = w.network.networkHeight
	if err := w.store.PutDeposit(depositToRecord(deposit)); err != nil {
		return nil, walletError(ErrDatabase, "failed to persist "+
			"deposit", err)
	}

	w.account.balance += credit
	w.account.unlockedBalance += credit
	if err := w.persistAccountLocked(); err != nil {
		return nil, err
	}

	rec := w.recordTransactionLocked(ref, credit, w.account.address,
		fn.None[string]())

	log.Infof("Withdrew deposit %v: %v principal plus %v interest",
		id, deposit.Amount, deposit.Interest)
	return rec, nil
}

// Deposits returns all deposits in creation order.  Lazy unlock promotion
// is applied before the copy so callers always observe the status implied
// by the current network height.
func (w *Wallet) Deposits() []Deposit {
	w.mu.Lock()
	defer w.mu.Unlock()

	deposits := make([]Deposit, 0, len(w.deposits))
	for _, deposit := range w.deposits {
		w.promoteDepositLocked(deposit)
		deposits = append(deposits, *deposit)
	}
	return deposits
}

// Deposit returns the deposit with the given id.
func (w *Wallet) Deposit(id uuid.UUID) (*Deposit, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	deposit := w.depositByIDLocked(id)
	if deposit == nil {
		return nil, walletError(ErrNotFound, fmt.Sprintf("no deposit "+
			"with id %v", id), nil)
	}
	w.promoteDepositLocked(deposit)

	dep := *deposit
	return &dep, nil
}

// depositByIDLocked finds a deposit by id.  The session lock must be
// held.
func (w *Wallet) depositByIDLocked(id uuid.UUID) *Deposit {
	for _, deposit := range w.deposits {
		if deposit.ID == id {
			return deposit
		}
	}
	return nil
}

// promoteDepositLocked applies the lazy Locked -> Unlocked transition by
// comparing the deposit's unlock height to the current network height.
// Nothing advances deposits on a timer; status is computed on read.  The
// session lock must be held.
func (w *Wallet) promoteDepositLocked(deposit *Deposit) {
	if deposit.Status != DepositLocked {
		return
	}
	if w.network.networkHeight < deposit.UnlockHeight {
		return
	}

	deposit.Status = DepositUnlocked
	if err := w.store.PutDeposit(depositToRecord(deposit)); err != nil {
		log.Errorf("Failed to persist unlock of deposit %v: %v",
			deposit.ID, err)
	}
}

// loadDeposits populates the in-memory ledger from the wallet store.
func (w *Wallet) loadDeposits() error {
	recs, err := w.store.Deposits()
	if err != nil {
		return walletError(ErrDatabase, "failed to load deposits", err)
	}
	w.deposits = make([]*Deposit, 0, len(recs))
	for i := range recs {
		w.deposits = append(w.deposits, depositFromRecord(&recs[i]))
	}
	return nil
}

func depositToRecord(d *Deposit) *wstore.DepositRecord {
	return &wstore.DepositRecord{
		ID:             [16]byte(d.ID),
		Amount:         d.Amount,
		TermDays:       d.TermDays,
		RateBps:        d.RateBps,
		Interest:       d.Interest,
		Status:         uint8(d.Status),
		UnlockHeight:   d.UnlockHeight,
		CreatingTxID:   d.CreatingTxID,
		CreatingHeight: d.CreatingHeight,
		SpendingTxID:   d.SpendingTxID,
		SpendingHeight: d.SpendingHeight,
		CreatedAt:      d.CreatedAt,
	}
}

func depositFromRecord(rec *wstore.DepositRecord) *Deposit {
	return &Deposit{
		ID:             uuid.UUID(rec.ID),
		Amount:         rec.Amount,
		TermDays:       rec.TermDays,
		RateBps:        rec.RateBps,
		Interest:       rec.Interest,
		Status:         DepositStatus(rec.Status),
		UnlockHeight:   rec.UnlockHeight,
		CreatingTxID:   rec.CreatingTxID,
		CreatingHeight: rec.CreatingHeight,
		SpendingTxID:   rec.SpendingTxID,
		SpendingHeight: rec.SpendingHeight,
		CreatedAt:      rec.CreatedAt,
	}
}
