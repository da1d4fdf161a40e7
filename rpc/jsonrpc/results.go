// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package jsonrpc

// InfoResult models the data returned by the getinfo command.
type InfoResult struct {
	Version         string  `json:"version"`
	Address         string  `json:"address"`
	Balance         float64 `json:"balance"`
	UnlockedBalance float64 `json:"unlockedbalance"`
	Unlocked        bool    `json:"unlocked"`
	Connected       bool    `json:"connected"`
	NodeHost        string  `json:"nodehost,omitempty"`
	SyncHeight      uint64  `json:"syncheight"`
	NetworkHeight   uint64  `json:"networkheight"`
	PeerCount       uint64  `json:"peercount"`
	MiningActive    bool    `json:"miningactive"`
	Network         string  `json:"network"`
}

// BalanceResult models the data returned by the getbalance command.
// Amounts are in whole coins.
type BalanceResult struct {
	Balance         float64 `json:"balance"`
	UnlockedBalance float64 `json:"unlockedbalance"`
}

// SyncStatusResult models the data returned by the getsyncstatus
// command.
type SyncStatusResult struct {
	State         string  `json:"state"`
	SyncHeight    uint64  `json:"syncheight"`
	NetworkHeight uint64  `json:"networkheight"`
	Progress      float64 `json:"progress"`
	PeerCount     uint64  `json:"peercount"`
	Connection    string  `json:"connection"`
	LastError     string  `json:"lasterror,omitempty"`
}

// BlockInfoResult models the data returned by the getblockinfo command.
type BlockInfoResult struct {
	Height     uint64  `json:"height"`
	Hash       string  `json:"hash"`
	Timestamp  int64   `json:"timestamp"`
	Difficulty uint64  `json:"difficulty"`
	Reward     float64 `json:"reward"`
	TxCount    int     `json:"txcount"`
}

// SendToAddressResult models the data returned by the sendtoaddress
// command.
type SendToAddressResult struct {
	TxID string  `json:"txid"`
	Hash string  `json:"hash"`
	Fee  float64 `json:"fee"`
}

// TransactionResult models one entry returned by the listtransactions
// command.
type TransactionResult struct {
	TxID          string  `json:"txid"`
	Hash          string  `json:"hash"`
	Amount        float64 `json:"amount"`
	Fee           float64 `json:"fee"`
	Timestamp     int64   `json:"timestamp"`
	Height        uint64  `json:"height"`
	Confirmations uint64  `json:"confirmations"`
	Confirmed     bool    `json:"confirmed"`
	Counterparty  string  `json:"counterparty,omitempty"`
	PaymentID     string  `json:"paymentid,omitempty"`
}

// DepositResult models one deposit as returned by the deposit commands.
type DepositResult struct {
	DepositID    string  `json:"depositid"`
	Amount       float64 `json:"amount"`
	Term         uint32  `json:"term"`
	Rate         float64 `json:"rate"`
	Interest     float64 `json:"interest"`
	Status       string  `json:"status"`
	UnlockHeight uint64  `json:"unlockheight"`
	CreatingTxID string  `json:"creatingtxid,omitempty"`
	SpendingTxID string  `json:"spendingtxid,omitempty"`
	CreatedAt    int64   `json:"createdat"`
}

// AddressBookEntryResult models one entry as returned by the address
// book commands.
type AddressBookEntryResult struct {
	Address      string `json:"address"`
	Label        string `json:"label"`
	Description  string `json:"description,omitempty"`
	CreatedTime  int64  `json:"createdtime"`
	LastUsedTime int64  `json:"lastusedtime,omitempty"`
	UseCount     uint64 `json:"usecount"`
}

// MiningInfoResult models the data returned by the getmininginfo
// command.
type MiningInfoResult struct {
	Active        bool   `json:"active"`
	Threads       uint8  `json:"threads"`
	Background    bool   `json:"background"`
	Hashrate      uint64 `json:"hashrate"`
	TotalHashes   uint64 `json:"totalhashes"`
	ValidShares   uint64 `json:"validshares"`
	InvalidShares uint64 `json:"invalidshares"`
	LastShareTime int64  `json:"lastsharetime,omitempty"`
	Pool          string `json:"pool,omitempty"`
	Worker        string `json:"worker,omitempty"`
}

// ValidateAddressResult models the data returned by the validateaddress
// command.
type ValidateAddressResult struct {
	IsValid bool   `json:"isvalid"`
	Address string `json:"address,omitempty"`
	IsMine  bool   `json:"ismine,omitempty"`
}

// ExportKeysResult models the data returned by the exportkeys command.
type ExportKeysResult struct {
	SeedPhrase string `json:"seedphrase"`
	ViewKey    string `json:"viewkey"`
	SpendKey   string `json:"spendkey"`
}
