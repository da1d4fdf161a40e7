// Copyright (c) 2025 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package unit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFeeRateFromFee checks that the conversion from a paid fee and blob
// size to a fee rate is correct.
func TestFeeRateFromFee(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		fee       Amount
		sizeBytes uint64
		expected  string
	}{
		{
			name:      "one atomic per byte",
			fee:       1000,
			sizeBytes: 1000,
			expected:  "1000.00 atomic/kB",
		},
		{
			name:      "default fee over two kilobytes",
			fee:       1000000,
			sizeBytes: 2000,
			expected:  "500000.00 atomic/kB",
		},
		{
			name:      "fractional rate",
			fee:       1,
			sizeBytes: 3000,
			expected:  "0.33 atomic/kB",
		},
		{
			name:      "zero size",
			fee:       1000000,
			sizeBytes: 0,
			expected:  "0.00 atomic/kB",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rate := NewAtomicPerKByte(tc.fee, tc.sizeBytes)
			require.Equal(t, tc.expected, rate.String())
		})
	}
}

// TestFeeForSize checks that fees derived from a rate round up to the
// next whole atomic unit so a paid fee never undershoots the rate.
func TestFeeForSize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		rate      AtomicPerKByte
		sizeBytes uint64
		expected  Amount
	}{
		{
			name:      "exact kilobyte",
			rate:      NewAtomicPerKByte(1000000, 1000),
			sizeBytes: 1000,
			expected:  1000000,
		},
		{
			name:      "half kilobyte",
			rate:      NewAtomicPerKByte(1000000, 1000),
			sizeBytes: 500,
			expected:  500000,
		},
		{
			name:      "rounds up",
			rate:      NewAtomicPerKByte(1, 1000),
			sizeBytes: 1,
			expected:  1,
		},
		{
			name:      "zero rate",
			rate:      NewAtomicPerKByte(0, 1000),
			sizeBytes: 5000,
			expected:  0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.expected, tc.rate.FeeForSize(tc.sizeBytes))
		})
	}
}
