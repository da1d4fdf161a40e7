// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"sync"
	"time"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
)

// Notification types.  These are emitted by the session's background
// engines and read from a notification channel so consumers never run
// inside the session lock.
type (
	// SyncProgress is emitted on every sync tick while a chain
	// connection is up.
	SyncProgress struct {
		SyncHeight    uint64
		NetworkHeight uint64
		Progress      float64
		Synced        bool
	}

	// ShareResult is emitted when the mining engine resolves a share.
	ShareResult struct {
		Accepted    bool
		ValidShares uint64
		Time        time.Time
	}

	// DepositCreated is emitted when a new term deposit is funded.
	DepositCreated struct {
		ID           string
		Amount       unit.Amount
		UnlockHeight uint64
	}

	// TransactionCreated is emitted when the transfer executor accepts
	// an outgoing transaction.
	TransactionCreated struct {
		TxID   string
		Amount unit.Amount
	}
)

// NotificationServer fans session notifications out to any number of
// registered clients.  Sends never block: a client that falls behind
// misses notifications rather than stalling the engines.
type NotificationServer struct {
	mu      sync.Mutex
	clients []*NotificationClient
}

// NotificationClient receives session notifications until Done is called.
type NotificationClient struct {
	c      chan interface{}
	server *NotificationServer
}

func newNotificationServer() *NotificationServer {
	return &NotificationServer{}
}

// Subscribe registers a new notification client.  The returned client's
// channel is buffered; notifications that arrive while the buffer is full
// are dropped for that client.
func (s *NotificationServer) Subscribe() *NotificationClient {
	client := &NotificationClient{
		c:      make(chan interface{}, 32),
		server: s,
	}
	s.mu.Lock()
	s.clients = append(s.clients, client)
	s.mu.Unlock()
	return client
}

// notify delivers a notification to every registered client.
func (s *NotificationServer) notify(n interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, client := range s.clients {
		select {
		case client.c <- n:
		default:
		}
	}
}

// C returns the channel notifications are delivered on.
func (c *NotificationClient) C() <-chan interface{} {
	return c.c
}

// Done unregisters the client.  The channel is not closed since a
// concurrent notify may still be holding a reference.
func (c *NotificationClient) Done() {
	s := c.server
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, registered := range s.clients {
		if registered == c {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			return
		}
	}
}
