// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package unit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestAmountCreation checks that NewAmount rounds to the nearest atomic
// unit and rejects non-finite inputs.
func TestAmountCreation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   float64
		valid    bool
		expected Amount
	}{
		{
			name:     "zero",
			amount:   0,
			valid:    true,
			expected: 0,
		},
		{
			name:     "max supply",
			amount:   8000888,
			valid:    true,
			expected: MaxAtomic,
		},
		{
			name:     "one hundredth",
			amount:   0.01,
			valid:    true,
			expected: 100000,
		},
		{
			name:     "exact atomic precision",
			amount:   0.1234567,
			valid:    true,
			expected: 1234567,
		},
		{
			name:     "rounds up",
			amount:   54.999999999,
			valid:    true,
			expected: 550000000,
		},
		{
			name:     "negative rounds away from zero",
			amount:   -0.00000005,
			valid:    true,
			expected: -1,
		},
		{
			name:   "not a number",
			amount: math.NaN(),
			valid:  false,
		},
		{
			name:   "positive infinity",
			amount: math.Inf(1),
			valid:  false,
		},
		{
			name:   "negative infinity",
			amount: math.Inf(-1),
			valid:  false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			a, err := NewAmount(test.amount)
			if !test.valid {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, test.expected, a)
		})
	}
}

// TestAmountUnitConversions checks unit conversion and formatting for a
// fixed amount.
func TestAmountUnitConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		amount    Amount
		unit      AmountUnit
		converted float64
		s         string
	}{
		{
			name:      "MXFG",
			amount:    MaxAtomic,
			unit:      AmountMegaXFG,
			converted: 8.000888,
			s:         "8.000888 MXFG",
		},
		{
			name:      "kXFG",
			amount:    44443331234567,
			unit:      AmountKiloXFG,
			converted: 4444.3331234567,
			s:         "4444.3331234567 kXFG",
		},
		{
			name:      "XFG",
			amount:    44443331234567,
			unit:      AmountXFG,
			converted: 4444333.1234567,
			s:         "4444333.1234567 XFG",
		},
		{
			name:      "atomic",
			amount:    44443331234567,
			unit:      AmountAtomic,
			converted: 44443331234567,
			s:         "44443331234567 atomic",
		},
		{
			name:      "non-standard unit",
			amount:    44443331234567,
			unit:      AmountUnit(-1),
			converted: 44443331.234567,
			s:         "44443331.234567 1e-1 XFG",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, test.converted, test.amount.ToUnit(test.unit))
			require.Equal(t, test.s, test.amount.Format(test.unit))
		})
	}

	// ToXFG and String are shorthand for the XFG unit.
	a := Amount(12345678)
	require.Equal(t, 1.2345678, a.ToXFG())
	require.Equal(t, "1.2345678 XFG", a.String())
}

// TestAmountMulF64 checks scaling amounts by floating point values.
func TestAmountMulF64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   Amount
		mul      float64
		expected Amount
	}{
		{"whole", 100000000, 2, 200000000},
		{"fraction", 100000000, 1.5, 150000000},
		{"rounds up", 1, 0.51, 1},
		{"rounds down", 1, 0.49, 0},
		{"zero multiplier", 100000000, 0, 0},
		{"negative amount", -100000000, 0.5, -50000000},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, test.expected, test.amount.MulF64(test.mul))
		})
	}
}
