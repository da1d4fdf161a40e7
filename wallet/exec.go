// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
	"github.com/fuegosuite/fuegowallet/wallet/rules"
)

// TxRef identifies a transaction accepted by the transfer executor.
type TxRef struct {
	// TxID is the executor-assigned transaction identifier.
	TxID uuid.UUID

	// TxHash is the hex encoded transaction hash.
	TxHash string

	// Fee is the fee the executor charged.
	Fee unit.Amount
}

// TransferExecutor performs the actual movement of funds.  The session
// core validates and bookkeeps around it but never signs or broadcasts
// anything itself.  Implementations must be safe for concurrent use.
type TransferExecutor interface {
	// Send signs and broadcasts a transfer to the given destination and
	// returns a reference to the created transaction.  Expected failure
	// modes map onto ErrInsufficientFunds and ErrNetwork.
	Send(dest string, amount unit.Amount, paymentID fn.Option[string],
		mixin uint8) (*TxRef, error)

	// EstimateFee returns the fee a transfer of the given shape would
	// pay without executing it.
	EstimateFee(dest string, amount unit.Amount,
		mixin uint8) (unit.Amount, error)
}

// SimExecutor is an in-process transfer executor used when no real node
// wallet backend is attached.  Transactions are assigned deterministic
// hashes derived from their contents and the submission time, matching
// what the real executor returns in shape.
type SimExecutor struct {
	clock clock.Clock

	mu    sync.Mutex
	seq   uint64
	fails bool
}

// NewSimExecutor returns a simulated transfer executor.
func NewSimExecutor(c clock.Clock) *SimExecutor {
	return &SimExecutor{clock: c}
}

// SetFailing switches the executor into a mode where every call fails
// with a network error.  Used to exercise degraded paths.
func (e *SimExecutor) SetFailing(fail bool) {
	e.mu.Lock()
	e.fails = fail
	e.mu.Unlock()
}

// Send implements the TransferExecutor interface.
func (e *SimExecutor) Send(dest string, amount unit.Amount,
	paymentID fn.Option[string], mixin uint8) (*TxRef, error) {

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fails {
		return nil, walletError(ErrNetwork, "transfer executor is "+
			"unreachable", nil)
	}

	e.seq++
	preimage := fmt.Sprintf("%s:%d:%d:%d:%d", dest, amount, mixin, e.seq,
		e.clock.Now().UnixNano())
	hash := sha256.Sum256([]byte(preimage))

	return &TxRef{
		TxID:   uuid.New(),
		TxHash: hex.EncodeToString(hash[:]),
		Fee:    rules.MinimumFee,
	}, nil
}

// EstimateFee implements the TransferExecutor interface.  The simulated
// network charges the flat minimum relay fee regardless of mixin.
func (e *SimExecutor) EstimateFee(dest string, amount unit.Amount,
	mixin uint8) (unit.Amount, error) {

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fails {
		return 0, walletError(ErrNetwork, "transfer executor is "+
			"unreachable", nil)
	}
	return rules.MinimumFee, nil
}
