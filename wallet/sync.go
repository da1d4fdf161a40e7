// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

// SyncState describes where the sync engine is in its Idle -> Syncing ->
// Synced state machine.
type SyncState uint8

// The sync engine states.  SyncIdle is the initial state and the state
// the engine stays in while the network reports a zero height, since
// progress against an empty chain is undefined.
const (
	SyncIdle SyncState = iota
	SyncSyncing
	SyncSynced
)

// String returns the sync state as a human-readable name.
func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncSyncing:
		return "syncing"
	case SyncSynced:
		return "synced"
	default:
		return "unknown"
	}
}

// SyncStepFunc computes how many blocks the sync height advances on one
// tick, given the remaining gap to the network height.  Implementations
// never need to clamp: the engine caps the returned step at the gap.
type SyncStepFunc func(gap uint64) uint64

// defaultSyncStepBase is the nominal per-tick advance of the simulated
// sync engine, before jitter.
const defaultSyncStepBase = 1000

// DefaultSyncStep advances by the nominal step with +-50% jitter, so sync
// progress moves in uneven bursts the way a batched block fetch does.
func DefaultSyncStep(gap uint64) uint64 {
	half := uint64(defaultSyncStepBase / 2)
	return half + randUint64n(defaultSyncStepBase+1)
}

// startSyncLoop spawns the sync engine goroutine.  A fresh quit/done pair
// is created per start so a stop/start cycle never races a stale loop,
// and the connected flag is re-checked under the lock so a Disconnect
// that interleaved with Connect wins: once it has returned, no sync
// goroutine may be live.
func (w *Wallet) startSyncLoop() {
	w.mu.Lock()
	if !w.account.connected || w.syncQuit != nil {
		w.mu.Unlock()
		return
	}
	quit := make(chan struct{})
	done := make(chan struct{})
	w.syncQuit, w.syncDone = quit, done
	w.mu.Unlock()

	w.wg.Add(1)
	go w.syncLoop(quit, done)
}

// stopSyncLoop requests cooperative termination of the sync engine and
// joins it.  It is idempotent and must not be called with the session
// lock held.
func (w *Wallet) stopSyncLoop() {
	w.mu.Lock()
	quit, done := w.syncQuit, w.syncDone
	w.syncQuit, w.syncDone = nil, nil
	w.mu.Unlock()

	if quit == nil {
		return
	}
	close(quit)
	<-done
}

// syncLoop is the sync engine.  It must be run as a goroutine.  Each tick
// refreshes the network facts from the oracle and advances the sync
// height by a bounded step until it matches the network height.
func (w *Wallet) syncLoop(quit <-chan struct{}, done chan<- struct{}) {
	defer w.wg.Done()
	defer close(done)

	w.syncTicker.Resume()
	defer w.syncTicker.Pause()

	walletQuit := w.quitChan()
	for {
		select {
		case <-w.syncTicker.Ticks():
			w.syncTick()
		case <-quit:
			return
		case <-walletQuit:
			return
		}
	}
}

// syncTick performs one pass of the sync engine under the session lock.
func (w *Wallet) syncTick() {
	w.mu.Lock()
	oracle := w.oracle
	w.mu.Unlock()
	if oracle == nil {
		return
	}

	// Query the oracle outside the lock; a slow node must not stall
	// foreign callers.
	networkHeight, heightErr := oracle.CurrentHeight()
	var (
		peers    uint64
		peersErr error
	)
	if heightErr == nil {
		peers, peersErr = oracle.PeerCount()
	}

	var progress *SyncProgress

	w.mu.Lock()
	switch {
	case heightErr != nil:
		// Degrade rather than terminate: keep the last known state,
		// record the failure, and let the next tick retry.  The
		// error is surfaced by the next snapshot.
		w.network.connType = ConnDegraded
		w.network.lastOracleErr = heightErr
		log.Warnf("Chain oracle query failed, sync paused: %v",
			heightErr)

	default:
		if w.network.connType == ConnDegraded {
			log.Info("Chain oracle recovered")
		}
		w.network.connType = ConnRPC
		w.network.lastOracleErr = nil
		w.network.networkHeight = networkHeight
		if peersErr == nil {
			w.network.peerCount = peers
		}

		if networkHeight == 0 {
			w.network.syncState = SyncIdle
			break
		}
		if w.network.syncState == SyncIdle {
			w.network.syncState = SyncSyncing
		}

		if w.network.syncHeight < networkHeight {
			gap := networkHeight - w.network.syncHeight
			step := w.syncStep(gap)
			if step > gap {
				step = gap
			}
			w.network.syncHeight += step
		}
		if w.network.syncHeight == networkHeight &&
			w.network.syncState != SyncSynced {

			w.network.syncState = SyncSynced
			log.Infof("Blockchain sync completed at height %d",
				networkHeight)
		}

		progress = &SyncProgress{
			SyncHeight:    w.network.syncHeight,
			NetworkHeight: networkHeight,
			Progress: float64(w.network.syncHeight) /
				float64(networkHeight),
			Synced: w.network.syncState == SyncSynced,
		}
	}
	w.mu.Unlock()

	if progress != nil {
		w.NtfnServer.notify(*progress)
	}
}

// RescanBlockchain forces the sync engine back into the syncing state
// from the given start height.  The engine picks the rescan up on its
// next tick.
func (w *Wallet) RescanBlockchain(startHeight uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.account.open {
		return walletError(ErrNotOpen, "no wallet session is open", nil)
	}
	if !w.account.connected {
		return walletError(ErrNotConnected, "cannot rescan without "+
			"a node connection", nil)
	}
	if w.network.networkHeight > 0 &&
		startHeight > w.network.networkHeight {

		return walletError(ErrInvalidArgument, "rescan height is "+
			"beyond the chain tip", nil)
	}

	w.network.syncHeight = startHeight
	w.network.syncState = SyncSyncing
	if w.network.networkHeight == 0 {
		w.network.syncState = SyncIdle
	}

	log.Infof("Rescanning blockchain from height %d", startHeight)
	return nil
}
