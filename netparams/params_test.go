// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netparams

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidAddress(t *testing.T) {
	t.Parallel()

	goodBody := strings.Repeat("0123456789abcdef", 6)[:95]
	tests := []struct {
		name  string
		addr  string
		valid bool
	}{
		{
			name:  "well formed",
			addr:  "fire" + goodBody,
			valid: true,
		},
		{
			name:  "wrong prefix",
			addr:  "fuel" + goodBody,
			valid: false,
		},
		{
			name:  "too short",
			addr:  "fire" + goodBody[:94],
			valid: false,
		},
		{
			name:  "too long",
			addr:  "fire" + goodBody + "0",
			valid: false,
		},
		{
			name:  "uppercase hex body",
			addr:  "fire" + strings.ToUpper(goodBody),
			valid: false,
		},
		{
			name:  "non hex body",
			addr:  "fire" + goodBody[:94] + "g",
			valid: false,
		},
		{
			name:  "empty",
			addr:  "",
			valid: false,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(
				t, test.valid,
				MainNetParams.ValidAddress(test.addr),
			)
		})
	}
}

func TestNetworkPorts(t *testing.T) {
	t.Parallel()

	// The wallet's own RPC listener must never collide with the node it
	// attaches to.
	require.NotEqual(
		t, MainNetParams.RPCClientPort, MainNetParams.RPCServerPort,
	)
	require.NotEqual(
		t, TestNetParams.RPCClientPort, TestNetParams.RPCServerPort,
	)

	// Deposit unlock heights assume the 480 second block target.
	require.Equal(t, uint32(180), MainNetParams.BlocksPerDay)
	require.Equal(
		t, MainNetParams.TargetTimePerBlock,
		TestNetParams.TargetTimePerBlock,
	)
}
