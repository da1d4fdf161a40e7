// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/fuegosuite/fuegowallet/netparams"
	"github.com/fuegosuite/fuegowallet/pkg/unit"
)

const (
	// simNetworkHeight is the chain tip the simulated network reports.
	simNetworkHeight uint64 = 964943

	// simPeerCount is the peer count the simulated node settles around.
	simPeerCount uint64 = 22

	// simDifficulty is the base proof-of-work difficulty of simulated
	// blocks.
	simDifficulty uint64 = 52500024

	// simBlockReward is the base emission per simulated block, in
	// atomic units.
	simBlockReward unit.Amount = 3005769

	// simNodeVersion is the node software version the simulator
	// reports.
	simNodeVersion = "1.9.1"

	// simGenesisUnix anchors simulated block timestamps.  Block heights
	// are converted to times at the target block spacing from here.
	simGenesisUnix int64 = 1509321600

	// peerWobbleInterval is the base interval between simulated peer
	// set changes.  The actual interval is jittered so concurrent
	// sessions do not change in lockstep.
	peerWobbleInterval = 5 * time.Second
)

// requiredNodeVersion is the minimum node version a client will attach
// to.
var requiredNodeVersion = semver{major: 1, minor: 9, patch: 0}

// ErrClientShutdown is returned by queries issued after the client has
// been stopped.
var ErrClientShutdown = errors.New("chain client is shut down")

// SimClient is a chain oracle backed by a deterministic in-process
// simulation of the Fuego network rather than an attached fuegod node.
// It reports a fixed chain tip, a peer count that wobbles around a
// baseline, and per-height block summaries derived from the height
// alone.
type SimClient struct {
	chainParams *netparams.Params
	host        string
	port        uint16

	blocks *blockCache

	// failErr, when non-nil, is returned from every query.  Tests use
	// it to exercise the degraded connection path.
	failErr error
	peers   uint64
	statMtx sync.Mutex

	enqueueNotification chan interface{}
	dequeueNotification chan interface{}

	quit    chan struct{}
	wg      sync.WaitGroup
	started bool
	quitMtx sync.Mutex
}

// A compile-time check to ensure that SimClient satisfies the Oracle
// interface.
var _ Oracle = (*SimClient)(nil)

// NewSimClient creates a simulated chain client for the node at the
// given address.  The connection is not established immediately, but
// must be done using the Start method.
func NewSimClient(chainParams *netparams.Params, host string,
	port uint16) (*SimClient, error) {

	if chainParams == nil {
		return nil, errors.New("missing chain params")
	}
	if host == "" {
		return nil, errors.New("missing node host")
	}
	if port == 0 {
		return nil, errors.New("missing node port")
	}

	return &SimClient{
		chainParams:         chainParams,
		host:                host,
		port:                port,
		blocks:              newBlockCache(defaultBlockCacheSize),
		peers:               simPeerCount,
		enqueueNotification: make(chan interface{}),
		dequeueNotification: make(chan interface{}),
		quit:                make(chan struct{}),
	}, nil
}

// BackEnd returns the name of the driver.
func (c *SimClient) BackEnd() string {
	return "sim"
}

// Start attaches the client to the simulated node.  The node's version
// is checked against the minimum the wallet supports before any
// notifications are delivered.
func (c *SimClient) Start() error {
	version, err := c.NodeVersion()
	if err != nil {
		return err
	}
	actual, err := parseSemver(version)
	if err != nil {
		return fmt.Errorf("unable to parse node version %q: %w",
			version, err)
	}
	if !semverCompatible(requiredNodeVersion, actual) {
		return fmt.Errorf("node version %v is not compatible, "+
			"need %d.%d.%d or later", version,
			requiredNodeVersion.major, requiredNodeVersion.minor,
			requiredNodeVersion.patch)
	}

	c.quitMtx.Lock()
	c.started = true
	c.quitMtx.Unlock()

	c.wg.Add(2)
	go c.handler()
	go c.peerHandler()

	log.Infof("Attached to simulated node %v:%d (version %v)", c.host,
		c.port, version)
	return nil
}

// Stop disconnects the client and signals the shutdown of all goroutines
// started by Start.
func (c *SimClient) Stop() {
	c.quitMtx.Lock()
	select {
	case <-c.quit:
	default:
		close(c.quit)
		if !c.started {
			close(c.dequeueNotification)
		}
	}
	c.quitMtx.Unlock()
}

// WaitForShutdown blocks until both the client has finished disconnecting
// and all handlers have exited.
func (c *SimClient) WaitForShutdown() {
	c.wg.Wait()
}

// Notifications returns a channel of parsed notifications.  The channel
// must be continually read or the client will stall.
func (c *SimClient) Notifications() <-chan interface{} {
	return c.dequeueNotification
}

// SetFailing makes every query return the given error until called again
// with nil.  A transition in either direction is reported through the
// notification channel.
func (c *SimClient) SetFailing(err error) {
	c.statMtx.Lock()
	prev := c.failErr
	c.failErr = err
	c.statMtx.Unlock()

	switch {
	case prev == nil && err != nil:
		c.notify(ClientDisconnected{})
	case prev != nil && err == nil:
		c.notify(ClientConnected{})
	}
}

// queryErr returns the injected failure, if any.
func (c *SimClient) queryErr() error {
	c.statMtx.Lock()
	defer c.statMtx.Unlock()
	return c.failErr
}

// CurrentHeight returns the best block height the simulated network
// knows of.
func (c *SimClient) CurrentHeight() (uint64, error) {
	if err := c.queryErr(); err != nil {
		return 0, err
	}
	return simNetworkHeight, nil
}

// PeerCount returns the simulated node's current peer count.
func (c *SimClient) PeerCount() (uint64, error) {
	c.statMtx.Lock()
	defer c.statMtx.Unlock()

	if c.failErr != nil {
		return 0, c.failErr
	}
	return c.peers, nil
}

// NodeVersion returns the version string of the simulated node.
func (c *SimClient) NodeVersion() (string, error) {
	if err := c.queryErr(); err != nil {
		return "", err
	}
	return simNodeVersion, nil
}

// BlockInfo returns the summary of the block at the given height.  The
// summary is derived deterministically from the height, so repeated
// queries always agree; results are served from an LRU cache once
// fetched.
func (c *SimClient) BlockInfo(height uint64) (*BlockInfo, error) {
	if err := c.queryErr(); err != nil {
		return nil, err
	}
	if height > simNetworkHeight {
		return nil, fmt.Errorf("block %d is past the chain tip %d",
			height, simNetworkHeight)
	}

	if info, ok := c.blocks.get(height); ok {
		return info, nil
	}

	info := simBlock(c.chainParams, height)
	c.blocks.put(info)
	return info, nil
}

// simBlock derives the deterministic block summary at a height.
func simBlock(params *netparams.Params, height uint64) *BlockInfo {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], height)

	h := sha256.New()
	h.Write([]byte("fuego/block/"))
	h.Write(buf[:])
	digest := h.Sum(nil)

	// Nudge the difficulty around the baseline so charts are not flat,
	// keeping the same value for the same height forever.
	wobble := binary.BigEndian.Uint64(digest[8:16]) % 1000000
	difficulty := simDifficulty - 500000 + wobble

	spacing := params.TargetTimePerBlock
	timestamp := time.Unix(simGenesisUnix, 0).
		Add(time.Duration(height) * spacing).UTC()

	return &BlockInfo{
		Height:     height,
		Hash:       hex.EncodeToString(digest),
		Timestamp:  timestamp,
		Difficulty: difficulty,
		Reward:     simBlockReward,
		TxCount:    1 + int(digest[0]%7),
	}
}

// notify hands a notification to the queue handler, dropping it if the
// client is shutting down.
func (c *SimClient) notify(n interface{}) {
	select {
	case c.enqueueNotification <- n:
	case <-c.quit:
	}
}

// handler maintains a queue of notifications so the caller can never
// block the producers.
func (c *SimClient) handler() {
	defer c.wg.Done()

	var notifications []interface{}
	enqueue := c.enqueueNotification
	var dequeue chan interface{}
	var next interface{}

out:
	for {
		select {
		case n, ok := <-enqueue:
			if !ok {
				// If no notifications are queued for handling,
				// the queue is finished.
				if len(notifications) == 0 {
					break out
				}
				// nil channel so no more reads can occur.
				enqueue = nil
				continue
			}
			if len(notifications) == 0 {
				next = n
				dequeue = c.dequeueNotification
			}
			notifications = append(notifications, n)

		case dequeue <- next:
			notifications[0] = nil
			notifications = notifications[1:]
			if len(notifications) != 0 {
				next = notifications[0]
			} else {
				// If no more notifications can be enqueued, the
				// queue is finished.
				if enqueue == nil {
					break out
				}
				dequeue = nil
			}

		case <-c.quit:
			break out
		}
	}
	close(c.dequeueNotification)
}

// peerHandler announces the attachment and then wobbles the peer count
// around its baseline on a jittered interval.
func (c *SimClient) peerHandler() {
	defer c.wg.Done()

	c.notify(ClientConnected{})

	ticker := NewJitterTicker(peerWobbleInterval, 0.4)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.statMtx.Lock()
			if c.failErr != nil {
				c.statMtx.Unlock()
				continue
			}
			peers := simPeerCount + uint64(rand.Intn(5)) //nolint:gosec
			if peers > 2 {
				peers -= 2
			}
			changed := peers != c.peers
			c.peers = peers
			c.statMtx.Unlock()

			if changed {
				c.notify(PeersChanged{Count: peers})
			}

		case <-c.quit:
			return
		}
	}
}

// parseSemver parses a dotted major.minor.patch version string.
func parseSemver(s string) (semver, error) {
	var v semver
	_, err := fmt.Sscanf(s, "%d.%d.%d", &v.major, &v.minor, &v.patch)
	return v, err
}
