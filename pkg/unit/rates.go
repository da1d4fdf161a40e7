// Copyright (c) 2025 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package unit

import (
	"fmt"
	"math"
	"math/big"
)

const (
	// BytesPerKilobyte is the divisor used when converting a total fee
	// and a raw transaction size into a fee rate.
	BytesPerKilobyte = 1000

	// floatStringPrecision is the number of decimal places to use when
	// converting a fee rate to a string.
	floatStringPrecision = 2
)

// AtomicPerKByte represents a fee rate in atomic units per kilobyte of
// raw transaction blob.  The rate is encoded as a big.Rat to allow for
// fractional (sub-atomic) fee rates.
type AtomicPerKByte struct {
	*big.Rat
}

// NewAtomicPerKByte creates a fee rate from a total fee and the size of
// the transaction blob that paid it.
func NewAtomicPerKByte(fee Amount, sizeBytes uint64) AtomicPerKByte {
	if sizeBytes == 0 {
		return AtomicPerKByte{big.NewRat(0, 1)}
	}

	return AtomicPerKByte{big.NewRat(
		int64(fee)*BytesPerKilobyte, safeUint64ToInt64(sizeBytes),
	)}
}

// FeeForSize returns the fee to pay at this rate for a transaction blob
// of the given size, rounded up to the next whole atomic unit.
func (r AtomicPerKByte) FeeForSize(sizeBytes uint64) Amount {
	size := big.NewRat(safeUint64ToInt64(sizeBytes), BytesPerKilobyte)
	fee := new(big.Rat).Mul(r.Rat, size)

	quo, rem := new(big.Int).QuoRem(
		fee.Num(), fee.Denom(), new(big.Int),
	)
	if rem.Sign() > 0 {
		quo.Add(quo, big.NewInt(1))
	}

	return Amount(quo.Int64())
}

// String returns a human-readable string of the fee rate.
func (r AtomicPerKByte) String() string {
	return fmt.Sprintf("%s atomic/kB", r.FloatString(floatStringPrecision))
}

// safeUint64ToInt64 converts a uint64 to an int64, clamping at the
// maximum int64 value instead of wrapping.
func safeUint64ToInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(v)
}
