// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"

	"github.com/fuegosuite/fuegowallet/chain"
	"github.com/fuegosuite/fuegowallet/internal/zero"
	"github.com/fuegosuite/fuegowallet/netparams"
	"github.com/fuegosuite/fuegowallet/txhist"
	"github.com/fuegosuite/fuegowallet/walletdb"
	"github.com/fuegosuite/fuegowallet/wstore"
)

const (
	// WalletDBName specifies the database filename for the wallet.
	WalletDBName = "wallet.db"

	// DefaultDBTimeout is the default timeout value when opening the
	// wallet database.
	DefaultDBTimeout = 60 * time.Second

	// InsecurePubPassphrase is the default outer encryption passphrase
	// used for public data.  This passphrase is intended to only provide
	// obfuscation of public material when the user has not set one of
	// their own.
	InsecurePubPassphrase = "public"
)

var (
	// ErrLoaded describes the error condition of attempting to load or
	// create a wallet when the loader has already done so.  It is a
	// comparable Error value carrying the ErrAlreadyOpen code, so both
	// errors.Is against this sentinel and IsError with ErrAlreadyOpen
	// match it.
	ErrLoaded = walletError(ErrAlreadyOpen, "wallet already loaded", nil)

	// ErrNotLoaded describes the error condition of attempting to close
	// a loaded wallet when a wallet has not been loaded.
	ErrNotLoaded = errors.New("wallet is not loaded")

	// ErrExists describes the error condition of attempting to create a
	// new wallet when one exists already.
	ErrExists = errors.New("wallet already exists")
)

// loaderConfig contains the configuration options for the loader.  All
// fields default to the production collaborators; tests override them
// through LoaderOptions.
type loaderConfig struct {
	history      *txhist.Store
	executor     TransferExecutor
	dialOracle   func(host string, port uint16) (chain.Oracle, error)
	keyProvider  KeyProvider
	clock        clock.Clock
	syncTicker   ticker.Ticker
	miningTicker ticker.Ticker
	syncStep     SyncStepFunc
	hashrate     HashrateFunc
	share        ShareFunc
}

// LoaderOption is a configuration option for the loader.
type LoaderOption func(*loaderConfig)

// WithHistory attaches a transaction history store to loaded wallets.
func WithHistory(history *txhist.Store) LoaderOption {
	return func(c *loaderConfig) { c.history = history }
}

// WithExecutor overrides the transfer executor.
func WithExecutor(executor TransferExecutor) LoaderOption {
	return func(c *loaderConfig) { c.executor = executor }
}

// WithDialOracle overrides how chain oracles are attached on Connect.
func WithDialOracle(dial func(host string,
	port uint16) (chain.Oracle, error)) LoaderOption {

	return func(c *loaderConfig) { c.dialOracle = dial }
}

// WithKeyProvider overrides the key derivation provider.
func WithKeyProvider(provider KeyProvider) LoaderOption {
	return func(c *loaderConfig) { c.keyProvider = provider }
}

// WithClock overrides the session time source.
func WithClock(c clock.Clock) LoaderOption {
	return func(cfg *loaderConfig) { cfg.clock = c }
}

// WithTickers overrides the background engine tickers.
func WithTickers(syncTicker, miningTicker ticker.Ticker) LoaderOption {
	return func(c *loaderConfig) {
		c.syncTicker = syncTicker
		c.miningTicker = miningTicker
	}
}

// WithPolicies overrides the simulated policy functions.  Nil members
// keep their defaults.
func WithPolicies(step SyncStepFunc, hashrate HashrateFunc,
	share ShareFunc) LoaderOption {

	return func(c *loaderConfig) {
		c.syncStep = step
		c.hashrate = hashrate
		c.share = share
	}
}

// Loader implements the creating of new and opening of existing wallets,
// while providing a callback system for other subsystems to handle the
// loading of a wallet.  This is primarily intended for use by the RPC
// server, to enable methods and services which require the wallet when
// the wallet is loaded by another subsystem.
//
// Loader is safe for concurrent access.
type Loader struct {
	cfg            *loaderConfig
	callbacks      []func(*Wallet)
	chainParams    *netparams.Params
	dbDirPath      string
	noFreelistSync bool
	timeout        time.Duration
	wallet         *Wallet
	db             walletdb.DB
	mu             sync.Mutex
}

// NewLoader constructs a Loader for the given network and database
// directory.
func NewLoader(chainParams *netparams.Params, dbDirPath string,
	noFreelistSync bool, timeout time.Duration,
	opts ...LoaderOption) *Loader {

	cfg := &loaderConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.clock == nil {
		cfg.clock = clock.NewDefaultClock()
	}
	if cfg.executor == nil {
		cfg.executor = NewSimExecutor(cfg.clock)
	}
	if cfg.dialOracle == nil {
		cfg.dialOracle = func(host string,
			port uint16) (chain.Oracle, error) {

			return chain.NewSimClient(chainParams, host, port)
		}
	}
	if cfg.keyProvider == nil {
		cfg.keyProvider = &simKeyProvider{params: chainParams}
	}

	return &Loader{
		cfg:            cfg,
		chainParams:    chainParams,
		dbDirPath:      dbDirPath,
		noFreelistSync: noFreelistSync,
		timeout:        timeout,
	}
}

// onLoaded executes each added callback and prevents loader from loading
// any additional wallets.  Requires mutex to be locked.
func (l *Loader) onLoaded(w *Wallet, db walletdb.DB) {
	for _, fn := range l.callbacks {
		fn(w)
	}

	l.wallet = w
	l.db = db
	l.callbacks = nil // not needed anymore
}

// RunAfterLoad adds a function to be executed when the loader creates or
// opens a wallet.  Functions are executed in a single goroutine in the
// order they are added.
func (l *Loader) RunAfterLoad(fn func(*Wallet)) {
	l.mu.Lock()
	if l.wallet != nil {
		w := l.wallet
		l.mu.Unlock()
		fn(w)
	} else {
		l.callbacks = append(l.callbacks, fn)
		l.mu.Unlock()
	}
}

// CreateNewWallet creates a new wallet using the provided public and
// private passphrases.  The seed is optional.  If non-nil, keys and the
// primary address are derived from it (a restored wallet).  If nil, a
// secure random seed is generated.
func (l *Loader) CreateNewWallet(pubPassphrase, privPassphrase,
	seed []byte, restoreHeight uint64) (*Wallet, error) {

	defer l.mu.Unlock()
	l.mu.Lock()

	if l.wallet != nil {
		return nil, ErrLoaded
	}

	exists, err := l.WalletExists()
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrExists
	}

	if seed == nil {
		seed = make([]byte, SeedLength)
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("failed to generate seed: %w",
				err)
		}
		defer zero.Bytes(seed)
	} else if len(seed) != SeedLength {
		return nil, walletError(ErrBadSeedPhrase, fmt.Sprintf(
			"seed must be %d bytes", SeedLength), nil)
	}

	address, err := l.cfg.keyProvider.DeriveAddress(seed, 0)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(l.dbDirPath, 0700); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(l.dbDirPath, WalletDBName)
	db, err := walletdb.Create(
		"bdb", dbPath, l.noFreelistSync, l.timeout,
	)
	if err != nil {
		return nil, err
	}

	err = wstore.Create(db, pubPassphrase, privPassphrase, seed,
		&wstore.AccountRecord{
			Address:       address,
			RestoreHeight: restoreHeight,
			CreatedAt:     l.cfg.clock.Now(),
		})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	w, err := l.openLoaded(db, pubPassphrase)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Infof("Created new wallet with address %v", address)
	return w, nil
}

// OpenExistingWallet opens the wallet from the loader's wallet database
// path using the public passphrase.  The private passphrase, when
// non-nil, is verified against the stored key material before the wallet
// is handed out, and the wallet is left unlocked.
func (l *Loader) OpenExistingWallet(pubPassphrase,
	privPassphrase []byte) (*Wallet, error) {

	defer l.mu.Unlock()
	l.mu.Lock()

	if l.wallet != nil {
		return nil, ErrLoaded
	}

	exists, err := l.WalletExists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, walletError(ErrNoExist, "no wallet database "+
			"exists at "+l.dbDirPath, nil)
	}

	dbPath := filepath.Join(l.dbDirPath, WalletDBName)
	db, err := walletdb.Open("bdb", dbPath, l.noFreelistSync, l.timeout)
	if err != nil {
		log.Errorf("Failed to open database: %v", err)
		return nil, err
	}

	w, err := l.openLoaded(db, pubPassphrase)
	if err != nil {
		// The backing database must be closed so a future open can
		// succeed.
		if e := db.Close(); e != nil {
			log.Warnf("Error closing database: %v", e)
		}
		return nil, err
	}

	if privPassphrase != nil {
		if err := w.Unlock(privPassphrase); err != nil {
			l.unloadLocked()
			return nil, err
		}
	}
	return w, nil
}

// openLoaded opens the wallet store in the given database and builds the
// session around it.  Requires mutex to be locked.
func (l *Loader) openLoaded(db walletdb.DB, pubPassphrase []byte) (*Wallet, error) {
	store, err := wstore.Open(db, pubPassphrase)
	if err != nil {
		if wstore.IsError(err, wstore.ErrWrongPassphrase) {
			return nil, walletError(ErrWrongPassphrase, "wrong "+
				"public passphrase", err)
		}
		return nil, err
	}

	w, err := Open(&Config{
		ChainParams:  l.chainParams,
		Store:        store,
		History:      l.cfg.history,
		Executor:     l.cfg.executor,
		DialOracle:   l.cfg.dialOracle,
		KeyProvider:  l.cfg.keyProvider,
		Clock:        l.cfg.clock,
		SyncTicker:   l.cfg.syncTicker,
		MiningTicker: l.cfg.miningTicker,
		SyncStep:     l.cfg.syncStep,
		Hashrate:     l.cfg.hashrate,
		Share:        l.cfg.share,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	w.Start()

	l.onLoaded(w, db)
	return w, nil
}

// WalletExists returns whether a file exists at the loader's database
// path.  This may return an error for unexpected I/O failures.
func (l *Loader) WalletExists() (bool, error) {
	dbPath := filepath.Join(l.dbDirPath, WalletDBName)
	return fileExists(dbPath)
}

// LoadedWallet returns the loaded wallet, if any, and a bool for whether
// the wallet has been loaded or not.  If true, the wallet pointer should
// be safe to dereference.
func (l *Loader) LoadedWallet() (*Wallet, bool) {
	l.mu.Lock()
	w := l.wallet
	l.mu.Unlock()
	return w, w != nil
}

// UnloadWallet stops the loaded wallet, if any, and closes the wallet
// database.  This returns ErrNotLoaded if the wallet has not been loaded
// with CreateNewWallet or OpenExistingWallet.  The Loader may be reused
// if this function returns without error.
func (l *Loader) UnloadWallet() error {
	defer l.mu.Unlock()
	l.mu.Lock()
	return l.unloadLocked()
}

func (l *Loader) unloadLocked() error {
	if l.wallet == nil {
		return ErrNotLoaded
	}

	l.wallet.Stop()
	l.wallet.WaitForShutdown()
	l.wallet.store.Close()
	if err := l.db.Close(); err != nil {
		return err
	}

	l.wallet = nil
	l.db = nil
	return nil
}

func fileExists(filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
