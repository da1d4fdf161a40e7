// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"

	"github.com/fuegosuite/fuegowallet/internal/zero"
	"github.com/fuegosuite/fuegowallet/netparams"
	"github.com/fuegosuite/fuegowallet/pgpwordlist"
)

// SeedLength is the length, in bytes, of a wallet seed.
const SeedLength = 32

// KeyMaterial is the exportable key set of a wallet.  It is only ever
// assembled on explicit request with the private passphrase and never
// retained by the session.
type KeyMaterial struct {
	SeedPhrase string
	ViewKey    string
	SpendKey   string
	HasKeys    bool
}

// KeyProvider derives addresses and key pairs from a wallet seed.  The
// session treats it as an opaque cryptographic collaborator; the actual
// derivation scheme lives behind this interface.
type KeyProvider interface {
	// DeriveKeys derives the view and spend key pair from the seed.
	DeriveKeys(seed []byte) (viewKey, spendKey string, err error)

	// DeriveAddress derives the receive address at the given index from
	// the seed.  Index zero is the account's primary address.
	DeriveAddress(seed []byte, index uint32) (string, error)
}

// simKeyProvider is the stand-in key provider used until a real
// CryptoNote key implementation is attached.  Derivation is a keyed hash
// of the seed: deterministic, well-formed for the network, and carrying
// no cryptographic weight.
type simKeyProvider struct {
	params *netparams.Params
}

// taggedHash hashes the seed under a derivation tag.
func taggedHash(tag string, seed []byte, index uint32) [sha512.Size]byte {
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)

	h := sha512.New()
	h.Write([]byte(tag))
	h.Write(seed)
	h.Write(idx[:])

	var sum [sha512.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// DeriveKeys implements the KeyProvider interface.
func (p *simKeyProvider) DeriveKeys(seed []byte) (string, string, error) {
	view := sha256.Sum256(append([]byte("fuego/view/"), seed...))
	spend := sha256.Sum256(append([]byte("fuego/spend/"), seed...))
	return hex.EncodeToString(view[:]), hex.EncodeToString(spend[:]), nil
}

// DeriveAddress implements the KeyProvider interface.
func (p *simKeyProvider) DeriveAddress(seed []byte, index uint32) (string, error) {
	sum := taggedHash("fuego/addr/", seed, index)
	body := hex.EncodeToString(sum[:])

	bodyLen := p.params.AddressLength - len(p.params.AddressPrefix)
	return p.params.AddressPrefix + body[:bodyLen], nil
}

// Address returns the account's primary receive address.
func (w *Wallet) Address() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.account.address
}

// ValidateAddress returns whether the string parses as an address for the
// session's network.
func (w *Wallet) ValidateAddress(address string) bool {
	return w.chainParams.ValidAddress(address)
}

// NewAddress derives the next receive address and records it in the
// address book under the given label.  The wallet must be unlocked since
// derivation needs the seed.
func (w *Wallet) NewAddress(label string) (string, error) {
	seed, err := w.exportSeed()
	if err != nil {
		return "", err
	}
	defer zero.Bytes(seed)

	w.mu.Lock()
	index := w.account.addrIndex + 1
	w.mu.Unlock()

	address, err := w.keyProvider.DeriveAddress(seed, index)
	if err != nil {
		return "", walletError(ErrInvalidArgument, "address "+
			"derivation failed", err)
	}

	w.mu.Lock()
	w.account.addrIndex = index
	err = w.persistAccountLocked()
	w.mu.Unlock()
	if err != nil {
		return "", err
	}

	if _, err := w.AddAddressBookEntry(address, label, ""); err != nil {
		log.Warnf("Derived address %v not recorded in address "+
			"book: %v", address, err)
	}

	log.Infof("Derived receive address %v (index %d)", address, index)
	return address, nil
}

// Keys exports the wallet's key material.  The private passphrase is
// verified first; the seed is zeroed before returning.
func (w *Wallet) Keys(privPass []byte) (*KeyMaterial, error) {
	if err := w.Unlock(privPass); err != nil {
		return nil, err
	}

	seed, err := w.exportSeed()
	if err != nil {
		return nil, err
	}
	defer zero.Bytes(seed)

	viewKey, spendKey, err := w.keyProvider.DeriveKeys(seed)
	if err != nil {
		return nil, walletError(ErrInvalidArgument, "key derivation "+
			"failed", err)
	}
	phrase, err := pgpwordlist.ToStringChecksum(seed)
	if err != nil {
		return nil, walletError(ErrInvalidArgument, "seed phrase "+
			"encoding failed", err)
	}

	return &KeyMaterial{
		SeedPhrase: phrase,
		ViewKey:    viewKey,
		SpendKey:   spendKey,
		HasKeys:    true,
	}, nil
}

// SeedPhrase exports only the seed phrase.
func (w *Wallet) SeedPhrase(privPass []byte) (string, error) {
	keys, err := w.Keys(privPass)
	if err != nil {
		return "", err
	}
	return keys.SeedPhrase, nil
}

// exportSeed fetches a copy of the seed from the store.  The caller must
// zero the returned slice.
func (w *Wallet) exportSeed() ([]byte, error) {
	seed, err := w.store.Seed()
	if err != nil {
		return nil, walletError(ErrLocked, "wallet is locked", err)
	}
	return seed, nil
}

// SeedFromPhrase decodes and checksum-validates a seed phrase.
func SeedFromPhrase(phrase string) ([]byte, error) {
	seed, err := pgpwordlist.ToBytesChecksum(phrase)
	if err != nil {
		return nil, walletError(ErrBadSeedPhrase, "seed phrase did "+
			"not validate", err)
	}
	if len(seed) != SeedLength {
		zero.Bytes(seed)
		return nil, walletError(ErrBadSeedPhrase, "seed phrase has "+
			"the wrong length", nil)
	}
	return seed, nil
}
