// Copyright (c) 2014-2015 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package snacl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Reduced scrypt cost parameters.  The defaults take on the order of a
// second per derivation, which is far too slow for the number of
// derivations these tests perform.
const (
	testN = 16
	testR = 8
	testP = 1
)

var testPassword = []byte("sikrit")

func newTestSecretKey(t *testing.T) *SecretKey {
	t.Helper()

	key, err := NewSecretKey(&testPassword, testN, testR, testP)
	require.NoError(t, err)
	return key
}

// TestSecretKeySeal verifies a secret key round-trips a message and that
// tampering with the blob fails the open.
func TestSecretKeySeal(t *testing.T) {
	t.Parallel()

	key := newTestSecretKey(t)
	message := []byte("this is a secret message of sorts")

	blob, err := key.Encrypt(message)
	require.NoError(t, err)

	decrypted, err := key.Decrypt(blob)
	require.NoError(t, err)
	require.Equal(t, message, decrypted)

	// Nonces are random, so sealing twice yields distinct blobs.
	blob2, err := key.Encrypt(message)
	require.NoError(t, err)
	require.NotEqual(t, blob, blob2)

	// A single flipped byte fails authentication.
	blob[len(blob)-15]++
	_, err = key.Decrypt(blob)
	require.ErrorIs(t, err, ErrDecryptFailed)

	// Truncated input is rejected before the open.
	_, err = key.Decrypt(blob2[:NonceSize-1])
	require.ErrorIs(t, err, ErrMalformed)
}

// TestSecretKeyMarshal verifies the stored parameters re-derive the same
// key from the passphrase.
func TestSecretKeyMarshal(t *testing.T) {
	t.Parallel()

	key := newTestSecretKey(t)
	params := key.Marshal()

	var sk SecretKey
	require.NoError(t, sk.Unmarshal(params))
	require.NoError(t, sk.DeriveKey(&testPassword))
	require.Equal(t, key.Key[:], sk.Key[:])

	// A wrong passphrase fails the digest check on the unmarshalled
	// parameters too.
	wrong := []byte("wrong password")
	require.ErrorIs(t, sk.DeriveKey(&wrong), ErrInvalidPassword)

	var bad SecretKey
	require.ErrorIs(t, bad.Unmarshal(params[:len(params)-1]), ErrMalformed)
}

// TestSecretKeyZero verifies zeroing clears the key material and that the
// key is usable again after re-derivation.
func TestSecretKeyZero(t *testing.T) {
	t.Parallel()

	key := newTestSecretKey(t)

	key.Zero()
	var zeroKey [KeySize]byte
	require.Equal(t, zeroKey[:], key.Key[:])

	wrong := []byte("bogus")
	require.ErrorIs(t, key.DeriveKey(&wrong), ErrInvalidPassword)

	require.NoError(t, key.DeriveKey(&testPassword))

	message := []byte("usable again")
	blob, err := key.Encrypt(message)
	require.NoError(t, err)
	decrypted, err := key.Decrypt(blob)
	require.NoError(t, err)
	require.Equal(t, message, decrypted)
}

// TestCryptoKeyGenerate verifies generated keys are random and zeroable.
func TestCryptoKeyGenerate(t *testing.T) {
	t.Parallel()

	k1, err := GenerateCryptoKey()
	require.NoError(t, err)
	k2, err := GenerateCryptoKey()
	require.NoError(t, err)
	require.NotEqual(t, k1[:], k2[:])

	blob, err := k1.Encrypt([]byte("payload"))
	require.NoError(t, err)
	_, err = k2.Decrypt(blob)
	require.ErrorIs(t, err, ErrDecryptFailed)

	k1.Zero()
	var zeroKey [KeySize]byte
	require.Equal(t, zeroKey[:], k1[:])
}
