// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/stretchr/testify/require"

	"github.com/fuegosuite/fuegowallet/chain"
	"github.com/fuegosuite/fuegowallet/netparams"
	"github.com/fuegosuite/fuegowallet/pkg/unit"
	"github.com/fuegosuite/fuegowallet/txhist"
	"github.com/fuegosuite/fuegowallet/walletdb"
	_ "github.com/fuegosuite/fuegowallet/walletdb/bdb"
	"github.com/fuegosuite/fuegowallet/wstore"
)

const (
	// testNetworkHeight is the chain tip the test oracle starts at.
	testNetworkHeight uint64 = 964943

	// testPeerCount is the peer count the test oracle reports.
	testPeerCount uint64 = 22

	// testSyncStep is the deterministic per-tick sync advance used by
	// the harness in place of the jittered production step.
	testSyncStep uint64 = 400000
)

var (
	testPubPass  = []byte("public")
	testPrivPass = []byte("private")
	testSeed     = []byte{
		0x2a, 0x64, 0xdf, 0x08, 0x5e, 0xef, 0xed, 0xd8, 0xbf,
		0xdb, 0xb3, 0x31, 0x76, 0xb5, 0xba, 0x2e, 0x62, 0xe8,
		0xbe, 0x8b, 0x56, 0xc8, 0x83, 0x77, 0x95, 0x59, 0x8b,
		0xb6, 0xc4, 0x40, 0xb0, 0x77,
	}

	testStartTime = time.Unix(1700000000, 0)
)

// testAddress builds a well-formed address for the main network whose hex
// body repeats the given digit.
func testAddress(digit byte) string {
	params := &netparams.MainNetParams
	body := strings.Repeat(string(digit),
		params.AddressLength-len(params.AddressPrefix))
	return params.AddressPrefix + body
}

// testOracle is a scriptable chain oracle.  Height, peer count, and a
// forced query error can be changed while a session is attached to it.
type testOracle struct {
	mu        sync.Mutex
	height    uint64
	peers     uint64
	heightErr error
}

var _ chain.Oracle = (*testOracle)(nil)

func newTestOracle() *testOracle {
	return &testOracle{
		height: testNetworkHeight,
		peers:  testPeerCount,
	}
}

func (o *testOracle) setHeight(height uint64) {
	o.mu.Lock()
	o.height = height
	o.mu.Unlock()
}

func (o *testOracle) setHeightErr(err error) {
	o.mu.Lock()
	o.heightErr = err
	o.mu.Unlock()
}

func (o *testOracle) Start() error     { return nil }
func (o *testOracle) Stop()            {}
func (o *testOracle) WaitForShutdown() {}
func (o *testOracle) BackEnd() string  { return "test" }

func (o *testOracle) CurrentHeight() (uint64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.heightErr != nil {
		return 0, o.heightErr
	}
	return o.height, nil
}

func (o *testOracle) PeerCount() (uint64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.peers, nil
}

func (o *testOracle) BlockInfo(height uint64) (*chain.BlockInfo, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if height > o.height {
		return nil, errors.New("height beyond chain tip")
	}
	return &chain.BlockInfo{Height: height}, nil
}

func (o *testOracle) NodeVersion() (string, error) {
	return "1.9.1", nil
}

func (o *testOracle) Notifications() <-chan interface{} {
	return nil
}

// testHarness bundles a wallet session with scriptable collaborators.
type testHarness struct {
	w        *Wallet
	oracle   *testOracle
	executor *SimExecutor
	clock    *clock.TestClock

	syncTicker   *ticker.Force
	miningTicker *ticker.Force

	mu    sync.Mutex
	share ShareOutcome
}

// setShare scripts the outcome the share policy resolves on subsequent
// mining ticks.
func (h *testHarness) setShare(outcome ShareOutcome) {
	h.mu.Lock()
	h.share = outcome
	h.mu.Unlock()
}

func (h *testHarness) shareOutcome() ShareOutcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.share
}

// connect attaches the harness oracle and fails the test on error.
func (h *testHarness) connect(t *testing.T) {
	t.Helper()
	require.NoError(t, h.w.Connect("localhost", 18180))
}

// newTestWallet creates a wallet session over a fresh store holding the
// given spendable balance, wired to deterministic collaborators.
func newTestWallet(t *testing.T, balance unit.Amount) *testHarness {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "wallet.db")
	db, err := walletdb.Create("bdb", dbPath, true, 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	err = wstore.Create(db, testPubPass, testPrivPass, testSeed,
		&wstore.AccountRecord{
			Address:         testAddress('0'),
			Balance:         balance,
			UnlockedBalance: balance,
			CreatedAt:       testStartTime,
		})
	require.NoError(t, err)

	store, err := wstore.Open(db, testPubPass)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	history, err := txhist.OpenSQLite(filepath.Join(dir, "txhistory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { history.Close() })

	h := &testHarness{
		oracle:       newTestOracle(),
		clock:        clock.NewTestClock(testStartTime),
		syncTicker:   ticker.NewForce(defaultSyncInterval),
		miningTicker: ticker.NewForce(defaultMiningInterval),
	}
	h.executor = NewSimExecutor(h.clock)

	w, err := Open(&Config{
		ChainParams: &netparams.MainNetParams,
		Store:       store,
		History:     history,
		Executor:    h.executor,
		DialOracle: func(host string, port uint16) (chain.Oracle, error) {
			return h.oracle, nil
		},
		Clock:        h.clock,
		SyncTicker:   h.syncTicker,
		MiningTicker: h.miningTicker,
		SyncStep:     func(gap uint64) uint64 { return testSyncStep },
		Share:        h.shareOutcome,
	})
	require.NoError(t, err)

	w.Start()
	t.Cleanup(func() {
		w.Stop()
		w.WaitForShutdown()
	})

	h.w = w
	return h
}
