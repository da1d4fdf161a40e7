// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"time"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
)

// BackEnds returns a list of the available back ends.
func BackEnds() []string {
	return []string{
		"sim",
	}
}

// BlockInfo describes a single block as reported by the attached node.
type BlockInfo struct {
	// Height is the block's position in the chain.
	Height uint64

	// Hash is the block's hex encoded hash.
	Hash string

	// Timestamp is the block's on-chain time.
	Timestamp time.Time

	// Difficulty is the proof-of-work difficulty the block was mined at.
	Difficulty uint64

	// Reward is the base coin emission of the block.
	Reward unit.Amount

	// TxCount is the number of transactions in the block, the coinbase
	// included.
	TxCount int
}

// Oracle supplies network facts to the wallet session.  It allows more than
// one backing source, such as an attached fuegod node or the in-process
// simulator, as long as we write a driver for it.
type Oracle interface {
	// Start establishes the connection to the backing source.  It must
	// be called before any of the query methods.
	Start() error

	// Stop requests a clean shutdown of the back end.
	Stop()

	// WaitForShutdown blocks until the back end has finished shutting
	// down.
	WaitForShutdown()

	// CurrentHeight returns the best block height the network knows of.
	CurrentHeight() (uint64, error)

	// PeerCount returns the number of peers the backing node is
	// connected to.
	PeerCount() (uint64, error)

	// BlockInfo returns the details of the block at the given height.
	BlockInfo(height uint64) (*BlockInfo, error)

	// NodeVersion returns the version string the backing node reports.
	NodeVersion() (string, error)

	// Notifications returns a channel of parsed notifications from the
	// back end.  The channel must be read, or notification processing
	// stalls.
	Notifications() <-chan interface{}

	// BackEnd returns the name of the driver.
	BackEnd() string
}

// Notification types.  These are defined here and processed from reading a
// notification channel to avoid handling them directly in callbacks, which
// isn't very Go-like and doesn't allow blocking client calls.
type (
	// ClientConnected is a notification for when a client connection is
	// opened or reestablished to the back end.
	ClientConnected struct{}

	// ClientDisconnected is a notification for when the connection to
	// the back end is lost.  Queries issued afterwards fail until a new
	// ClientConnected arrives.
	ClientDisconnected struct{}

	// PeersChanged is a notification for when the backing node's peer
	// set changes size.
	PeersChanged struct {
		Count uint64
	}
)
