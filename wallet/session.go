// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"fmt"

	"github.com/fuegosuite/fuegowallet/chain"
)

// Connect attaches a chain oracle for the given node and starts the sync
// engine against it.  An already connected session is reconnected to the
// new node.
func (w *Wallet) Connect(host string, port uint16) error {
	w.mu.Lock()
	if !w.account.open {
		w.mu.Unlock()
		return walletError(ErrNotOpen, "no wallet session is open", nil)
	}
	w.mu.Unlock()

	// Tear down any previous connection first.  Reconnecting to the
	// node currently attached is a disconnect/connect cycle.
	if err := w.Disconnect(); err != nil {
		return err
	}

	oracle, err := w.dialOracle(host, port)
	if err != nil {
		return walletError(ErrOracleUnavailable, fmt.Sprintf("failed "+
			"to dial node %s:%d", host, port), err)
	}
	if err := oracle.Start(); err != nil {
		return walletError(ErrOracleUnavailable, fmt.Sprintf("failed "+
			"to reach node %s:%d", host, port), err)
	}

	// Take the initial network facts synchronously so the first
	// snapshot after Connect already reflects the connection.
	networkHeight, err := oracle.CurrentHeight()
	if err != nil {
		oracle.Stop()
		oracle.WaitForShutdown()
		return walletError(ErrOracleUnavailable, "node did not "+
			"report a chain height", err)
	}
	peers, err := oracle.PeerCount()
	if err != nil {
		oracle.Stop()
		oracle.WaitForShutdown()
		return walletError(ErrOracleUnavailable, "node did not "+
			"report a peer count", err)
	}

	w.mu.Lock()
	w.oracle = oracle
	w.account.connected = true
	w.network = networkState{
		connType:      ConnRPC,
		node:          fmt.Sprintf("%s:%d", host, port),
		peerCount:     peers,
		networkHeight: networkHeight,
		syncHeight:    w.account.restoreHeight,
		syncState:     SyncIdle,
	}
	if networkHeight > 0 {
		if w.network.syncHeight > networkHeight {
			w.network.syncHeight = networkHeight
		}
		w.network.syncState = SyncSyncing
	}
	w.mu.Unlock()

	w.startSyncLoop()

	log.Infof("Connected to node %s:%d (height %d, %d peers)", host,
		port, networkHeight, peers)
	return nil
}

// Disconnect stops the sync engine, detaches the oracle, and resets the
// network state to its disconnected defaults.  It is a no-op on a session
// that is not connected.
func (w *Wallet) Disconnect() error {
	w.stopSyncLoop()

	w.mu.Lock()
	oracle := w.oracle
	w.oracle = nil
	wasConnected := w.account.connected
	w.account.connected = false
	w.network = networkState{}
	w.mu.Unlock()

	if oracle != nil {
		oracle.Stop()
		oracle.WaitForShutdown()
	}
	if wasConnected {
		log.Info("Disconnected from node")
	}
	return nil
}

// BlockInfo returns the details of the block at the given height from the
// attached oracle.
func (w *Wallet) BlockInfo(height uint64) (*chain.BlockInfo, error) {
	w.mu.Lock()
	oracle := w.oracle
	w.mu.Unlock()

	if oracle == nil {
		return nil, walletError(ErrNotConnected, "no node is "+
			"attached", nil)
	}
	info, err := oracle.BlockInfo(height)
	if err != nil {
		return nil, walletError(ErrOracleUnavailable, fmt.Sprintf(
			"failed to fetch block %d", height), err)
	}
	return info, nil
}
