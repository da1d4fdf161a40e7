// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package netparams groups the parameters for the Fuego main and test
// networks.
package netparams

import (
	"strings"
	"time"
)

// addressPrefix is the human readable prefix every Fuego address starts
// with.
const addressPrefix = "fire"

// addressLength is the total length of a Fuego address, prefix included.
// The body after the prefix is lowercase hex.
const addressLength = 99

// Params is used to group parameters for various networks such as the main
// network and test networks.
type Params struct {
	// Name is the short name the network is selected by in config files
	// and on the command line.
	Name string

	// AddressPrefix is the prefix all addresses on this network carry.
	AddressPrefix string

	// AddressLength is the total address length, prefix included.
	AddressLength int

	// RPCClientPort is the default RPC port of the fuegod node the
	// wallet attaches to.
	RPCClientPort string

	// RPCServerPort is the default port the wallet's own RPC server
	// listens on.
	RPCServerPort string

	// TargetTimePerBlock is the network's block time target.
	TargetTimePerBlock time.Duration

	// BlocksPerDay is the number of blocks the network produces per day
	// at the target spacing.  Deposit terms are converted from days to
	// an unlock height with it.
	BlocksPerDay uint32

	// SeedNodes is the list of well known nodes new wallets attach to
	// when no node is configured.
	SeedNodes []string
}

// MainNetParams contains parameters specific to running fuegowallet and
// fuegod on the main network.
var MainNetParams = Params{
	Name:               "mainnet",
	AddressPrefix:      addressPrefix,
	AddressLength:      addressLength,
	RPCClientPort:      "18180",
	RPCServerPort:      "18182",
	TargetTimePerBlock: 480 * time.Second,
	BlocksPerDay:       180,
	SeedNodes: []string{
		"fuego.spaceportx.net:18180",
		"node1.fuego.network:18081",
		"node2.fuego.network:18081",
		"node3.fuego.network:18081",
	},
}

// TestNetParams contains parameters specific to running fuegowallet and
// fuegod on the test network.
var TestNetParams = Params{
	Name:               "testnet",
	AddressPrefix:      addressPrefix,
	AddressLength:      addressLength,
	RPCClientPort:      "28180",
	RPCServerPort:      "28182",
	TargetTimePerBlock: 480 * time.Second,
	BlocksPerDay:       180,
	SeedNodes:          nil,
}

// ValidAddress returns whether the passed string parses as an address for
// this network: the network prefix followed by a lowercase hex body of the
// expected length.
func (p *Params) ValidAddress(addr string) bool {
	if len(addr) != p.AddressLength {
		return false
	}
	if !strings.HasPrefix(addr, p.AddressPrefix) {
		return false
	}
	for _, r := range addr[len(p.AddressPrefix):] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
