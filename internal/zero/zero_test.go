// Copyright (c) 2015 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zero_test

import (
	"fmt"
	"testing"

	. "github.com/fuegosuite/fuegowallet/internal/zero"
)

func makeOneBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 1
	}
	return b
}

func checkZeroBytes(b []byte) error {
	for i, v := range b {
		if v != 0 {
			return fmt.Errorf("b[%d] = %d", i, v)
		}
	}
	return nil
}

func TestBytes(t *testing.T) {
	tests := []int{
		0,
		31,
		32,
		33,
		127,
		128,
		129,
		255,
		256,
		257,
		383,
		384,
		385,
		511,
		512,
		513,
	}

	for i, n := range tests {
		b := makeOneBytes(n)
		Bytes(b)
		err := checkZeroBytes(b)
		if err != nil {
			t.Errorf("Test %d (n=%d) failed: %v", i, n, err)
			continue
		}
	}
}

func TestBytea32(t *testing.T) {
	var b [32]byte
	copy(b[:], makeOneBytes(32))

	Bytea32(&b)

	if err := checkZeroBytes(b[:]); err != nil {
		t.Error(err)
	}
}

func TestBytea64(t *testing.T) {
	var b [64]byte
	copy(b[:], makeOneBytes(64))

	Bytea64(&b)

	if err := checkZeroBytes(b[:]); err != nil {
		t.Error(err)
	}
}
