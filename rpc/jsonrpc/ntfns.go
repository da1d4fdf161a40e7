// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package jsonrpc

// SyncProgressNtfn defines the syncprogress JSON-RPC notification sent
// to websocket clients as the sync engine advances.
type SyncProgressNtfn struct {
	SyncHeight    uint64
	NetworkHeight uint64
	Progress      float64
	Synced        bool
}

// NewSyncProgressNtfn returns a new instance which can be used to issue
// a syncprogress JSON-RPC notification.
func NewSyncProgressNtfn(syncHeight, networkHeight uint64, progress float64,
	synced bool) *SyncProgressNtfn {

	return &SyncProgressNtfn{
		SyncHeight:    syncHeight,
		NetworkHeight: networkHeight,
		Progress:      progress,
		Synced:        synced,
	}
}

// ShareResultNtfn defines the shareresult JSON-RPC notification sent to
// websocket clients when the mining engine submits a share.
type ShareResultNtfn struct {
	Accepted    bool
	ValidShares uint64
}

// NewShareResultNtfn returns a new instance which can be used to issue a
// shareresult JSON-RPC notification.
func NewShareResultNtfn(accepted bool, validShares uint64) *ShareResultNtfn {
	return &ShareResultNtfn{
		Accepted:    accepted,
		ValidShares: validShares,
	}
}

// DepositCreatedNtfn defines the depositcreated JSON-RPC notification.
type DepositCreatedNtfn struct {
	DepositID    string
	Amount       float64
	UnlockHeight uint64
}

// NewDepositCreatedNtfn returns a new instance which can be used to
// issue a depositcreated JSON-RPC notification.
func NewDepositCreatedNtfn(depositID string, amount float64,
	unlockHeight uint64) *DepositCreatedNtfn {

	return &DepositCreatedNtfn{
		DepositID:    depositID,
		Amount:       amount,
		UnlockHeight: unlockHeight,
	}
}

// TransactionCreatedNtfn defines the transactioncreated JSON-RPC
// notification.
type TransactionCreatedNtfn struct {
	TxID   string
	Amount float64
}

// NewTransactionCreatedNtfn returns a new instance which can be used to
// issue a transactioncreated JSON-RPC notification.
func NewTransactionCreatedNtfn(txID string, amount float64) *TransactionCreatedNtfn {
	return &TransactionCreatedNtfn{
		TxID:   txID,
		Amount: amount,
	}
}

func init() {
	MustRegisterCmd("syncprogress", (*SyncProgressNtfn)(nil))
	MustRegisterCmd("shareresult", (*ShareResultNtfn)(nil))
	MustRegisterCmd("depositcreated", (*DepositCreatedNtfn)(nil))
	MustRegisterCmd("transactioncreated", (*TransactionCreatedNtfn)(nil))
}
