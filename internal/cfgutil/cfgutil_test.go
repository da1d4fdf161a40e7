// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNormalizeAddresses checks default port handling and duplicate
// removal for listener address lists.
func TestNormalizeAddresses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addrs   []string
		want    []string
		wantErr bool
	}{{
		name:  "ports appended",
		addrs: []string{"127.0.0.1", "localhost:28182"},
		want:  []string{"127.0.0.1:18182", "localhost:28182"},
	}, {
		name:  "duplicates dropped in order",
		addrs: []string{"a:1", "b:2", "a:1", "a"},
		want:  []string{"a:1", "b:2", "a:18182"},
	}, {
		name:  "empty",
		addrs: nil,
		want:  []string{},
	}, {
		name:    "invalid address",
		addrs:   []string{"host:port:extra"},
		wantErr: true,
	}}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeAddresses(test.addrs, "18182")
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

// TestFileExists checks the stat wrapper for present and absent paths.
func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.db")

	exists, err := FileExists(path)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	exists, err = FileExists(path)
	require.NoError(t, err)
	require.True(t, exists)
}

// TestExplicitString checks that explicit assignment is tracked apart
// from the default value.
func TestExplicitString(t *testing.T) {
	t.Parallel()

	s := NewExplicitString("default")
	require.False(t, s.ExplicitlySet())
	require.Equal(t, "default", s.Value)

	// Setting the default value explicitly still counts as set.
	require.NoError(t, s.UnmarshalFlag("default"))
	require.True(t, s.ExplicitlySet())

	require.NoError(t, s.UnmarshalFlag("postgres://x"))
	require.Equal(t, "postgres://x", s.Value)

	marshalled, err := s.MarshalFlag()
	require.NoError(t, err)
	require.Equal(t, "postgres://x", marshalled)
}
