// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package unit provides types for expressing quantities of the Fuego
// network's currency, XFG.
package unit

import (
	"errors"
	"math"
	"strconv"
)

const (
	// AtomicPerCoin is the number of atomic units in one XFG.
	AtomicPerCoin = 1e7

	// MaxAtomic is the total supply of the Fuego network expressed in
	// atomic units.  No single amount can exceed it.
	MaxAtomic = 8000888 * AtomicPerCoin
)

// AmountUnit describes a unit to express an Amount in.  The value of the
// constant is the exponent, base 10, relative to one XFG.
type AmountUnit int

// These constants define various units used when describing an XFG
// monetary amount.
const (
	AmountMegaXFG  AmountUnit = 6
	AmountKiloXFG  AmountUnit = 3
	AmountXFG      AmountUnit = 0
	AmountMilliXFG AmountUnit = -3
	AmountAtomic   AmountUnit = -7
)

// String returns the unit as a string.  For recognized units, the SI
// prefix is used, or "atomic" for the base unit.  For all unrecognized
// units, "1eN XFG" is returned, where N is the AmountUnit.
func (u AmountUnit) String() string {
	switch u {
	case AmountMegaXFG:
		return "MXFG"
	case AmountKiloXFG:
		return "kXFG"
	case AmountXFG:
		return "XFG"
	case AmountMilliXFG:
		return "mXFG"
	case AmountAtomic:
		return "atomic"
	default:
		return "1e" + strconv.FormatInt(int64(u), 10) + " XFG"
	}
}

// Amount represents a quantity of XFG as an integer count of atomic
// units.  Transaction amounts are signed: a negative Amount denotes
// funds leaving the wallet.
type Amount int64

// round converts a floating point number, which may or may not be
// representable as an integer, to the Amount integer type by rounding to
// the nearest atomic unit.  When the value is exactly halfway between
// two integers it is rounded away from zero.
func round(f float64) Amount {
	if f < 0 {
		return Amount(f - 0.5)
	}
	return Amount(f + 0.5)
}

// NewAmount creates an Amount from a floating point value representing
// an amount of XFG.  Errors on NaN and +/-Infinity; these are not valid
// monetary quantities.
func NewAmount(f float64) (Amount, error) {
	switch {
	case math.IsNaN(f), math.IsInf(f, 1), math.IsInf(f, -1):
		return 0, errors.New("invalid XFG amount")
	}

	return round(f * AtomicPerCoin), nil
}

// ToUnit converts a monetary amount counted in atomic units to a
// floating point value representing an amount in the given unit.
func (a Amount) ToUnit(u AmountUnit) float64 {
	return float64(a) / math.Pow10(int(u)-int(AmountAtomic))
}

// ToXFG is the equivalent of calling ToUnit with AmountXFG.
func (a Amount) ToXFG() float64 {
	return a.ToUnit(AmountXFG)
}

// Format formats a monetary amount counted in atomic units as a string
// for the given unit, suffixed with the unit name.
func (a Amount) Format(u AmountUnit) string {
	units := " " + u.String()
	return strconv.FormatFloat(a.ToUnit(u), 'f',
		-int(u-AmountAtomic), 64) + units
}

// String is the equivalent of calling Format with AmountXFG.
func (a Amount) String() string {
	return a.Format(AmountXFG)
}

// MulF64 multiplies an Amount by a floating point value.  While this is
// not an operation that must typically be done by a full node or wallet,
// it is useful for policy code that scales amounts, such as interest and
// fee calculations.
func (a Amount) MulF64(f float64) Amount {
	return round(float64(a) * f)
}
