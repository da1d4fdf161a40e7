// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"fmt"
	"time"

	"github.com/fuegosuite/fuegowallet/wallet/rules"
)

// ShareOutcome is the result of one mining tick's share lottery.
type ShareOutcome uint8

// The share outcomes.  Most ticks resolve to ShareNone; a share is only
// found occasionally and is then either accepted or rejected by the pool.
const (
	ShareNone ShareOutcome = iota
	ShareAccepted
	ShareRejected
)

// String returns the share outcome as a human-readable name.
func (o ShareOutcome) String() string {
	switch o {
	case ShareNone:
		return "none"
	case ShareAccepted:
		return "accepted"
	case ShareRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ShareFunc resolves the share outcome of one mining tick.
type ShareFunc func() ShareOutcome

// HashrateFunc computes the nominal hashrate for a thread count.
type HashrateFunc func(threads int, background bool) uint64

// Default per-tick share probabilities of the simulated miner.
const (
	defaultShareAcceptP = 0.04
	defaultShareRejectP = 0.004
)

// DefaultShareOutcome is the production share policy: a small per-tick
// chance of finding a share, with roughly one rejection per ten accepted.
func DefaultShareOutcome() ShareOutcome {
	switch p := randFloat64(); {
	case p < defaultShareAcceptP:
		return ShareAccepted
	case p < defaultShareAcceptP+defaultShareRejectP:
		return ShareRejected
	default:
		return ShareNone
	}
}

// DefaultHashrate is the production hashrate policy from the rules
// package.
func DefaultHashrate(threads int, background bool) uint64 {
	return rules.NominalHashrate(threads, background)
}

// StartMining starts the mining engine with the given thread count.  All
// cumulative counters are reset.  Background mode runs the threads at a
// reduced rate.
func (w *Wallet) StartMining(threads int, background bool) error {
	if !rules.ValidThreads(threads) {
		return walletError(ErrInvalidArgument, fmt.Sprintf("thread "+
			"count %d is outside [%d, %d]", threads,
			rules.MinMiningThreads, rules.MaxMiningThreads), nil)
	}

	w.mu.Lock()
	if !w.account.open {
		w.mu.Unlock()
		return walletError(ErrNotOpen, "no wallet session is open", nil)
	}
	if w.mining.running {
		w.mu.Unlock()
		return walletError(ErrMiningActive, "mining is already "+
			"running", nil)
	}

	pool, worker := w.mining.poolAddress, w.mining.workerName
	w.mining = miningState{
		running:     true,
		background:  background,
		threads:     threads,
		hashrate:    w.hashrateFn(threads, background),
		startTime:   w.clock.Now(),
		poolAddress: pool,
		workerName:  worker,
	}
	hashrate := w.mining.hashrate
	w.mu.Unlock()

	w.startMineLoop()

	log.Infof("Mining started with %d threads at %d H/s (background=%v)",
		threads, hashrate, background)
	return nil
}

// StopMining stops the mining engine and joins its goroutine.  The
// cumulative hash and share counters are preserved for reporting until
// the next StartMining; threads and hashrate drop to zero.  Stopping a
// stopped miner is a no-op.
func (w *Wallet) StopMining() error {
	w.stopMineLoop()

	w.mu.Lock()
	wasRunning := w.mining.running
	w.mining.running = false
	w.mining.background = false
	w.mining.threads = 0
	w.mining.hashrate = 0
	w.mu.Unlock()

	if wasRunning {
		log.Info("Mining stopped")
	}
	return nil
}

// SetMiningPool records the pool endpoint and worker name mining shares
// are attributed to.
func (w *Wallet) SetMiningPool(pool, worker string) error {
	if !rules.ValidPoolAddress(pool) {
		return walletError(ErrInvalidArgument, fmt.Sprintf("%q is "+
			"not a valid pool address", pool), nil)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.account.open {
		return walletError(ErrNotOpen, "no wallet session is open", nil)
	}
	w.mining.poolAddress = pool
	w.mining.workerName = worker
	return nil
}

// startMineLoop spawns the mining engine goroutine.  The running flag is
// re-checked under the lock so a StopMining that interleaved with the
// caller wins: once it has returned, no mining goroutine may be live.
func (w *Wallet) startMineLoop() {
	w.mu.Lock()
	if !w.mining.running || w.mineQuit != nil {
		w.mu.Unlock()
		return
	}
	quit := make(chan struct{})
	done := make(chan struct{})
	w.mineQuit, w.mineDone = quit, done
	w.mu.Unlock()

	w.wg.Add(1)
	go w.mineLoop(quit, done)
}

// stopMineLoop requests cooperative termination of the mining engine and
// joins it.  It is idempotent and must not be called with the session
// lock held.
func (w *Wallet) stopMineLoop() {
	w.mu.Lock()
	quit, done := w.mineQuit, w.mineDone
	w.mineQuit, w.mineDone = nil, nil
	w.mu.Unlock()

	if quit == nil {
		return
	}
	close(quit)
	<-done
}

// mineLoop is the mining engine.  It must be run as a goroutine.
func (w *Wallet) mineLoop(quit <-chan struct{}, done chan<- struct{}) {
	defer w.wg.Done()
	defer close(done)

	w.miningTicker.Resume()
	defer w.miningTicker.Pause()

	walletQuit := w.quitChan()
	for {
		select {
		case <-w.miningTicker.Ticks():
			w.mineTick()
		case <-quit:
			return
		case <-walletQuit:
			return
		}
	}
}

// mineTick performs one pass of the mining engine under the session lock.
func (w *Wallet) mineTick() {
	outcome := w.shareFn()
	now := w.clock.Now()

	var share *ShareResult

	w.mu.Lock()
	if !w.mining.running {
		w.mu.Unlock()
		return
	}

	// Accumulate the hashes one tick of work represents.
	w.mining.totalHashes += w.mining.hashrate *
		uint64(defaultMiningInterval) / uint64(time.Second)

	switch outcome {
	case ShareAccepted:
		w.mining.validShares++
		w.mining.lastShareTime = now
		share = &ShareResult{
			Accepted:    true,
			ValidShares: w.mining.validShares,
			Time:        now,
		}
	case ShareRejected:
		w.mining.invalidShares++
		share = &ShareResult{
			Accepted:    false,
			ValidShares: w.mining.validShares,
			Time:        now,
		}
	}
	w.mu.Unlock()

	if share != nil {
		if share.Accepted {
			log.Debugf("Share accepted (%d valid)",
				share.ValidShares)
		} else {
			log.Debug("Share rejected by pool")
		}
		w.NtfnServer.notify(*share)
	}
}
