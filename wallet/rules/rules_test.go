// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
)

// TestDepositRateSchedule checks the rate step function at and around each
// term boundary.
func TestDepositRateSchedule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		termDays uint32
		wantBps  uint32
	}{
		{termDays: 1, wantBps: 500},
		{termDays: 30, wantBps: 500},
		{termDays: 31, wantBps: 800},
		{termDays: 90, wantBps: 800},
		{termDays: 91, wantBps: 1200},
		{termDays: 180, wantBps: 1200},
		{termDays: 181, wantBps: 1500},
		{termDays: 3650, wantBps: 1500},
	}
	for _, test := range tests {
		require.Equal(t, test.wantBps, DepositRateBps(test.termDays),
			"term %d days", test.termDays)
	}
}

// TestDepositInterest checks the floor division of the interest formula,
// including amounts large enough that the intermediate product no longer
// fits an int64.
func TestDepositInterest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   unit.Amount
		termDays uint32
		want     unit.Amount
	}{
		{
			name:     "one coin one month",
			amount:   unit.AtomicPerCoin,
			termDays: 30,
			// 1e7 * 500 * 30 / 3650000 = 41095.89 -> 41095.
			want: 41095,
		},
		{
			name:     "one coin max tier",
			amount:   unit.AtomicPerCoin,
			termDays: 365,
			// Full year at 15%.
			want: 1500000,
		},
		{
			name:     "tiny amount floors to zero",
			amount:   1,
			termDays: 30,
			want:     0,
		},
		{
			name:     "total supply does not overflow",
			amount:   unit.MaxAtomic,
			termDays: 365,
			want:     unit.Amount(unit.MaxAtomic) * 15 / 100,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := DepositInterest(test.amount, test.termDays)
			require.Equal(t, test.want, got)
		})
	}
}

func TestValidMixin(t *testing.T) {
	t.Parallel()

	require.True(t, ValidMixin(0))
	require.True(t, ValidMixin(DefaultMixin))
	require.True(t, ValidMixin(MixinMax))
	require.False(t, ValidMixin(MixinMax+1))
}

func TestValidThreads(t *testing.T) {
	t.Parallel()

	require.False(t, ValidThreads(0))
	require.True(t, ValidThreads(1))
	require.True(t, ValidThreads(32))
	require.False(t, ValidThreads(33))
	require.False(t, ValidThreads(-4))
}

func TestNominalHashrate(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(500), NominalHashrate(4, false))
	require.Equal(t, uint64(250), NominalHashrate(4, true))
	require.Equal(t, uint64(125), NominalHashrate(1, false))
}

func TestValidPoolAddress(t *testing.T) {
	t.Parallel()

	require.True(t, ValidPoolAddress("pool.fuego.network:3333"))
	require.True(t, ValidPoolAddress("127.0.0.1:18180"))
	require.False(t, ValidPoolAddress("pool.fuego.network"))
	require.False(t, ValidPoolAddress(":3333"))
	require.False(t, ValidPoolAddress(""))
}
