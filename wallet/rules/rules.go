// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rules implements the policy side of the wallet session: relay
// fees, mixin bounds, the term deposit interest schedule, and the nominal
// mining profile.  The session core treats these as pluggable inputs so
// tests can substitute deterministic values.
package rules

import (
	"math/big"
	"net"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
)

const (
	// MinimumFee is the lowest fee the network relays, in atomic units.
	MinimumFee unit.Amount = 1000000

	// MixinMax is the largest mixin the network accepts on a transfer.
	MixinMax = 10

	// DefaultMixin is the mixin used when the caller does not specify
	// one.
	DefaultMixin = 5

	// MinMiningThreads and MaxMiningThreads bound the thread count the
	// mining engine accepts.
	MinMiningThreads = 1
	MaxMiningThreads = 32

	// ThreadHashrate is the nominal per-thread hashrate, in hashes per
	// second, the simulated miner reports.
	ThreadHashrate = 125

	// DaysPerYear is the day count interest rates are annualized over.
	DaysPerYear = 365

	// RateDivisor converts basis points to a ratio.
	RateDivisor = 10000
)

// Deposit term boundaries and the annualized simple interest rate, in
// basis points, paid for terms up to and including each boundary.
const (
	shortTermDays  = 30
	mediumTermDays = 90
	longTermDays   = 180

	shortTermBps  = 500
	mediumTermBps = 800
	longTermBps   = 1200
	maxTermBps    = 1500
)

// DepositRateBps returns the annualized simple interest rate, in basis
// points, paid on a deposit of the given term.  The rate is a step
// function of the term length.
func DepositRateBps(termDays uint32) uint32 {
	switch {
	case termDays <= shortTermDays:
		return shortTermBps
	case termDays <= mediumTermDays:
		return mediumTermBps
	case termDays <= longTermDays:
		return longTermBps
	default:
		return maxTermBps
	}
}

// DepositInterest returns the interest earned by a deposit of the given
// amount and term, rounded down to the atomic unit.  The intermediate
// product amount*bps*term can overflow an int64 for large amounts, so the
// calculation is done with arbitrary precision integers.
func DepositInterest(amount unit.Amount, termDays uint32) unit.Amount {
	interest := new(big.Int).SetInt64(int64(amount))
	interest.Mul(interest, big.NewInt(int64(DepositRateBps(termDays))))
	interest.Mul(interest, big.NewInt(int64(termDays)))
	interest.Quo(interest, big.NewInt(DaysPerYear*RateDivisor))
	return unit.Amount(interest.Int64())
}

// ValidMixin returns whether the mixin is within the accepted range.
func ValidMixin(mixin uint8) bool {
	return mixin <= MixinMax
}

// ValidThreads returns whether the thread count is within the range the
// mining engine supports.
func ValidThreads(threads int) bool {
	return threads >= MinMiningThreads && threads <= MaxMiningThreads
}

// NominalHashrate returns the hashrate, in hashes per second, the mining
// engine reports for the given thread count.  Background mining runs the
// threads at half rate to leave the rest of the system responsive.
func NominalHashrate(threads int, background bool) uint64 {
	rate := uint64(threads) * ThreadHashrate
	if background {
		rate /= 2
	}
	return rate
}

// ValidPoolAddress returns whether the pool address parses as a host:port
// pair with a non-empty host.
func ValidPoolAddress(pool string) bool {
	host, port, err := net.SplitHostPort(pool)
	return err == nil && host != "" && port != ""
}
