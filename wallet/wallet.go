// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet implements the wallet session core: the stateful engine
// that owns an opened wallet's balances, sync position, mining status,
// term deposits, address book, and keys, and exposes them safely to
// concurrent callers while the sync and mining engines mutate them in the
// background.
package wallet

import (
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"

	"github.com/fuegosuite/fuegowallet/chain"
	"github.com/fuegosuite/fuegowallet/netparams"
	"github.com/fuegosuite/fuegowallet/pkg/unit"
	"github.com/fuegosuite/fuegowallet/txhist"
	"github.com/fuegosuite/fuegowallet/wstore"
)

const (
	// defaultSyncInterval is the tick interval of the sync engine.
	defaultSyncInterval = 500 * time.Millisecond

	// defaultMiningInterval is the tick interval of the mining engine.
	defaultMiningInterval = 100 * time.Millisecond
)

// ConnType describes the kind of connection the session has to its chain
// oracle.
type ConnType uint8

// The connection states a session moves through.  ConnDegraded means a
// connection was established but the oracle failed on a recent query; the
// sync engine keeps retrying until it recovers or the session disconnects.
const (
	ConnDisconnected ConnType = iota
	ConnRPC
	ConnDegraded
)

// String returns the connection type as a human-readable name.
func (c ConnType) String() string {
	switch c {
	case ConnDisconnected:
		return "Disconnected"
	case ConnRPC:
		return "RPC"
	case ConnDegraded:
		return "Degraded"
	default:
		return "Unknown"
	}
}

// accountState is the mutable account portion of the session state.
type accountState struct {
	address         string
	balance         unit.Amount
	unlockedBalance unit.Amount
	open            bool
	connected       bool
	restoreHeight   uint64
	addrIndex       uint32
	createdAt       time.Time
}

// networkState is the mutable network portion of the session state.
type networkState struct {
	connType      ConnType
	node          string
	peerCount     uint64
	syncHeight    uint64
	networkHeight uint64
	syncState     SyncState
	lastOracleErr error
}

// miningState is the mutable mining portion of the session state.
type miningState struct {
	running       bool
	background    bool
	threads       int
	hashrate      uint64
	totalHashes   uint64
	validShares   uint64
	invalidShares uint64
	startTime     time.Time
	lastShareTime time.Time
	poolAddress   string
	workerName    string
}

// Config supplies the collaborators and policies a wallet session runs
// with.  Zero-valued optional fields fall back to production defaults.
type Config struct {
	// ChainParams selects the network the session operates on.
	ChainParams *netparams.Params

	// Store is the opened wallet store the session state is loaded from
	// and persisted to.
	Store *wstore.Manager

	// History records every transaction the session creates.  It may be
	// nil, in which case history queries return empty results.
	History *txhist.Store

	// Executor moves funds on behalf of the session.
	Executor TransferExecutor

	// DialOracle attaches a chain oracle for the given node address.
	DialOracle func(host string, port uint16) (chain.Oracle, error)

	// KeyProvider derives addresses and key pairs from the wallet seed.
	// Defaults to the network's simulated provider.
	KeyProvider KeyProvider

	// Clock is the session's time source.  Defaults to the wall clock.
	Clock clock.Clock

	// SyncTicker gates the sync engine.  Defaults to a 500ms ticker.
	SyncTicker ticker.Ticker

	// MiningTicker gates the mining engine.  Defaults to a 100ms ticker.
	MiningTicker ticker.Ticker

	// SyncStep computes how far the sync height advances on one tick
	// given the gap to the network height.  Defaults to DefaultSyncStep.
	SyncStep SyncStepFunc

	// Hashrate computes the nominal hashrate reported for a thread
	// count.  Defaults to the rules package schedule.
	Hashrate HashrateFunc

	// Share resolves a share outcome for one mining tick.  Defaults to
	// DefaultShareOutcome.
	Share ShareFunc
}

// Wallet is a single opened wallet session.  All exported methods are
// safe for concurrent use: session state is guarded by one mutex that the
// foreign callers and both background engines serialize through.
type Wallet struct {
	chainParams *netparams.Params
	store       *wstore.Manager
	history     *txhist.Store
	executor    TransferExecutor
	dialOracle  func(host string, port uint16) (chain.Oracle, error)
	keyProvider KeyProvider
	clock       clock.Clock

	syncTicker   ticker.Ticker
	miningTicker ticker.Ticker
	syncStep     SyncStepFunc
	hashrateFn   HashrateFunc
	shareFn      ShareFunc

	// NtfnServer fans out session notifications.
	NtfnServer *NotificationServer

	mu       sync.Mutex
	account  accountState
	network  networkState
	mining   miningState
	deposits []*Deposit
	book     []*AddressBookEntry
	oracle   chain.Oracle

	// Per-engine quit channels.  A fresh pair is made on every engine
	// start so stop/start cycles never observe a stale goroutine.
	syncQuit chan struct{}
	syncDone chan struct{}
	mineQuit chan struct{}
	mineDone chan struct{}

	started bool
	quit    chan struct{}
	quitMu  sync.Mutex

	wg sync.WaitGroup
}

// Open loads a wallet session from its opened store.
func Open(cfg *Config) (*Wallet, error) {
	acct, err := cfg.Store.Account()
	if err != nil {
		return nil, walletError(ErrDatabase, "failed to load account",
			err)
	}

	w := newWallet(cfg)
	w.account = accountState{
		address:         acct.Address,
		balance:         acct.Balance,
		unlockedBalance: acct.UnlockedBalance,
		open:            true,
		restoreHeight:   acct.RestoreHeight,
		addrIndex:       acct.AddrIndex,
		createdAt:       acct.CreatedAt,
	}

	if err := w.loadDeposits(); err != nil {
		return nil, err
	}
	if err := w.loadAddressBook(); err != nil {
		return nil, err
	}

	log.Infof("Opened wallet session for %v (balance %v, %d deposits, "+
		"%d address book entries)", acct.Address, acct.Balance,
		len(w.deposits), len(w.book))
	return w, nil
}

func newWallet(cfg *Config) *Wallet {
	w := &Wallet{
		chainParams:  cfg.ChainParams,
		store:        cfg.Store,
		history:      cfg.History,
		executor:     cfg.Executor,
		dialOracle:   cfg.DialOracle,
		keyProvider:  cfg.KeyProvider,
		clock:        cfg.Clock,
		syncTicker:   cfg.SyncTicker,
		miningTicker: cfg.MiningTicker,
		syncStep:     cfg.SyncStep,
		hashrateFn:   cfg.Hashrate,
		shareFn:      cfg.Share,
		NtfnServer:   newNotificationServer(),
		quit:         make(chan struct{}),
	}

	if w.clock == nil {
		w.clock = clock.NewDefaultClock()
	}
	if w.keyProvider == nil {
		w.keyProvider = &simKeyProvider{params: cfg.ChainParams}
	}
	if w.syncTicker == nil {
		w.syncTicker = ticker.New(defaultSyncInterval)
	}
	if w.miningTicker == nil {
		w.miningTicker = ticker.New(defaultMiningInterval)
	}
	if w.syncStep == nil {
		w.syncStep = DefaultSyncStep
	}
	if w.hashrateFn == nil {
		w.hashrateFn = DefaultHashrate
	}
	if w.shareFn == nil {
		w.shareFn = DefaultShareOutcome
	}
	return w
}

// Start marks the session as started.  The background engines are not
// spawned here; the sync engine starts on Connect and the mining engine
// on StartMining.
func (w *Wallet) Start() {
	w.quitMu.Lock()
	select {
	case <-w.quit:
		// Restarting a stopped session.  Wait for the old goroutines
		// to finish before replacing the quit channel.
		w.quitMu.Unlock()
		w.WaitForShutdown()
		w.quitMu.Lock()
		w.quit = make(chan struct{})
	default:
		if w.started {
			w.quitMu.Unlock()
			return
		}
		w.started = true
	}
	w.quitMu.Unlock()
}

// quitChan atomically reads the quit channel.
func (w *Wallet) quitChan() <-chan struct{} {
	w.quitMu.Lock()
	c := w.quit
	w.quitMu.Unlock()
	return c
}

// Stop signals all session goroutines to shut down and tears down the
// chain connection and mining engine.  It joins both engines before
// returning so no background task outlives the state it mutates.
func (w *Wallet) Stop() {
	w.quitMu.Lock()
	quit := w.quit
	w.quitMu.Unlock()

	select {
	case <-quit:
	default:
		close(quit)
	}

	w.stopSyncLoop()
	w.stopMineLoop()

	w.mu.Lock()
	oracle := w.oracle
	w.oracle = nil
	w.account.connected = false
	w.account.open = false
	w.network = networkState{}
	w.mu.Unlock()

	if oracle != nil {
		oracle.Stop()
		oracle.WaitForShutdown()
	}

	w.syncTicker.Stop()
	w.miningTicker.Stop()
}

// ShuttingDown returns whether the session is currently in the process of
// shutting down or not.
func (w *Wallet) ShuttingDown() bool {
	select {
	case <-w.quitChan():
		return true
	default:
		return false
	}
}

// WaitForShutdown blocks until all session goroutines have finished.
func (w *Wallet) WaitForShutdown() {
	w.wg.Wait()
}

// ChainParams returns the network parameters the session operates on.
func (w *Wallet) ChainParams() *netparams.Params {
	return w.chainParams
}

// AccountSnapshot is a read-only copy of the account state.
type AccountSnapshot struct {
	Address         string
	Balance         unit.Amount
	UnlockedBalance unit.Amount
	Open            bool
	Connected       bool
}

// NetworkSnapshot is a read-only copy of the network state.
type NetworkSnapshot struct {
	Connection    ConnType
	Node          string
	PeerCount     uint64
	SyncHeight    uint64
	NetworkHeight uint64
	Syncing       bool
	Synced        bool
	Progress      float64
	OracleError   string
}

// MiningSnapshot is a read-only copy of the mining state.
type MiningSnapshot struct {
	Mining        bool
	Background    bool
	Threads       int
	Hashrate      uint64
	TotalHashes   uint64
	ValidShares   uint64
	InvalidShares uint64
	StartTime     time.Time
	LastShareTime time.Time
	PoolAddress   string
	WorkerName    string
}

// SessionSnapshot is the combined read-only view of the session state.
// Every field set is copied under a single acquisition of the session
// lock, so the snapshot is internally consistent.
type SessionSnapshot struct {
	Account AccountSnapshot
	Network NetworkSnapshot
	Mining  MiningSnapshot
}

// Snapshot returns a consistent copy of the full session state.
func (w *Wallet) Snapshot() *SessionSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	return &SessionSnapshot{
		Account: w.accountSnapshotLocked(),
		Network: w.networkSnapshotLocked(),
		Mining:  w.miningSnapshotLocked(),
	}
}

func (w *Wallet) accountSnapshotLocked() AccountSnapshot {
	return AccountSnapshot{
		Address:         w.account.address,
		Balance:         w.account.balance,
		UnlockedBalance: w.account.unlockedBalance,
		Open:            w.account.open,
		Connected:       w.account.connected,
	}
}

func (w *Wallet) networkSnapshotLocked() NetworkSnapshot {
	snap := NetworkSnapshot{
		Connection:    w.network.connType,
		Node:          w.network.node,
		PeerCount:     w.network.peerCount,
		SyncHeight:    w.network.syncHeight,
		NetworkHeight: w.network.networkHeight,
		Syncing:       w.network.syncState == SyncSyncing,
		Synced:        w.network.syncState == SyncSynced,
	}
	if w.network.networkHeight > 0 {
		snap.Progress = float64(w.network.syncHeight) /
			float64(w.network.networkHeight)
	}
	if w.network.lastOracleErr != nil {
		snap.OracleError = w.network.lastOracleErr.Error()
	}
	return snap
}

func (w *Wallet) miningSnapshotLocked() MiningSnapshot {
	return MiningSnapshot{
		Mining:        w.mining.running,
		Background:    w.mining.background,
		Threads:       w.mining.threads,
		Hashrate:      w.mining.hashrate,
		TotalHashes:   w.mining.totalHashes,
		ValidShares:   w.mining.validShares,
		InvalidShares: w.mining.invalidShares,
		StartTime:     w.mining.startTime,
		LastShareTime: w.mining.lastShareTime,
		PoolAddress:   w.mining.poolAddress,
		WorkerName:    w.mining.workerName,
	}
}

// Unlock unseals the wallet's private key material with the private
// passphrase so operations needing it, such as key export, can proceed.
func (w *Wallet) Unlock(privPass []byte) error {
	err := w.store.Unlock(privPass)
	if err != nil {
		if wstore.IsError(err, wstore.ErrWrongPassphrase) {
			return walletError(ErrWrongPassphrase, "wrong wallet "+
				"passphrase", err)
		}
		return walletError(ErrDatabase, "failed to unlock wallet", err)
	}
	log.Info("Wallet unlocked")
	return nil
}

// Lock reseals the wallet's private key material.
func (w *Wallet) Lock() {
	w.store.Lock()
	log.Info("Wallet locked")
}

// Locked returns whether the private key material is currently sealed.
func (w *Wallet) Locked() bool {
	return w.store.Locked()
}

// persistAccountLocked writes the current account state to the wallet
// store.  The session lock must be held.
func (w *Wallet) persistAccountLocked() error {
	err := w.store.PutAccount(&wstore.AccountRecord{
		Address:         w.account.address,
		Balance:         w.account.balance,
		UnlockedBalance: w.account.unlockedBalance,
		RestoreHeight:   w.account.restoreHeight,
		AddrIndex:       w.account.addrIndex,
		CreatedAt:       w.account.createdAt,
	})
	if err != nil {
		return walletError(ErrDatabase, "failed to persist account",
			err)
	}
	return nil
}

// CreditBalance adds incoming funds to both balances.  It is invoked by
// chain notifications when the oracle observes funds arriving for the
// session's address, never by the session itself.
func (w *Wallet) CreditBalance(amount unit.Amount) error {
	if amount <= 0 {
		return walletError(ErrInvalidArgument, "credit amount must "+
			"be positive", nil)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.account.balance += amount
	w.account.unlockedBalance += amount
	return w.persistAccountLocked()
}
