// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wstore implements the persistent wallet store.  It keeps the
// account record, the snacl-sealed seed, the address book, and the term
// deposit ledger in a walletdb namespace so a wallet can be reopened with
// the state it was closed with.
package wstore

import (
	"sort"
	"sync"

	"github.com/fuegosuite/fuegowallet/internal/zero"
	"github.com/fuegosuite/fuegowallet/snacl"
	"github.com/fuegosuite/fuegowallet/walletdb"
)

// Scrypt cost parameters for the passphrase-derived master keys.  These
// are variables here so tests can lower them.
var (
	scryptN = snacl.DefaultN
	scryptR = snacl.DefaultR
	scryptP = snacl.DefaultP
)

// Manager provides access to the stored wallet state.  It is safe for
// concurrent use.  Secret material is sealed under a passphrase-derived
// master key and only available between Unlock and Lock.
type Manager struct {
	db walletdb.DB

	mu         sync.Mutex
	masterPriv *snacl.SecretKey
	sealedSeed []byte
	locked     bool

	depositSeq  map[[16]byte]uint64
	nextDeposit uint64
	nextBookSeq uint64
}

// Exists returns whether the database already contains a wallet store.
func Exists(db walletdb.DB) (bool, error) {
	var exists bool
	err := walletdb.View(db, func(tx walletdb.ReadTx) error {
		exists = tx.ReadBucket(storeBucketName) != nil
		return nil
	})
	return exists, err
}

// Create initializes a new wallet store in the given database.  The public
// passphrase gates opening the store, the private passphrase seals the
// seed.  The passed account record describes the initial account state.
func Create(db walletdb.DB, pubPass, privPass, seed []byte,
	account *AccountRecord) error {

	exists, err := Exists(db)
	if err != nil {
		return storeError(ErrDatabase, "failed to probe store", err)
	}
	if exists {
		return storeError(ErrAlreadyExists, "wallet store already "+
			"exists", nil)
	}

	masterPub, err := snacl.NewSecretKey(&pubPass, scryptN, scryptR, scryptP)
	if err != nil {
		return storeError(ErrCrypto, "failed to derive public master "+
			"key", err)
	}
	defer masterPub.Zero()

	masterPriv, err := snacl.NewSecretKey(
		&privPass, scryptN, scryptR, scryptP,
	)
	if err != nil {
		return storeError(ErrCrypto, "failed to derive private master "+
			"key", err)
	}
	defer masterPriv.Zero()

	sealedSeed, err := masterPriv.Encrypt(seed)
	if err != nil {
		return storeError(ErrCrypto, "failed to seal seed", err)
	}

	serializedAccount, err := serializeAccount(account)
	if err != nil {
		return storeError(ErrData, "failed to serialize account", err)
	}

	err = walletdb.Update(db, func(tx walletdb.ReadWriteTx) error {
		ns, err := tx.CreateTopLevelBucket(storeBucketName)
		if err != nil {
			return err
		}
		if err := putVersion(ns, latestVersion); err != nil {
			return err
		}

		acctBucket, err := ns.CreateBucket(accountBucketName)
		if err != nil {
			return err
		}
		if err := acctBucket.Put(accountKeyName, serializedAccount); err != nil {
			return err
		}

		keysBucket, err := ns.CreateBucket(keysBucketName)
		if err != nil {
			return err
		}
		err = keysBucket.Put(masterPubKeyName, masterPub.Marshal())
		if err != nil {
			return err
		}
		err = keysBucket.Put(masterPrivKeyName, masterPriv.Marshal())
		if err != nil {
			return err
		}
		if err := keysBucket.Put(sealedSeedKeyName, sealedSeed); err != nil {
			return err
		}

		if _, err := ns.CreateBucket(depositBucketName); err != nil {
			return err
		}
		_, err = ns.CreateBucket(addrBookBucketName)
		return err
	})
	if err != nil {
		return storeError(ErrDatabase, "failed to create store", err)
	}

	log.Infof("Created wallet store for account %v", account.Address)
	return nil
}

// Open opens an existing wallet store, verifying the public passphrase
// against the stored public master key.  The returned manager starts out
// locked.
func Open(db walletdb.DB, pubPass []byte) (*Manager, error) {
	// Bring the store schema up to date before reading anything from it.
	if err := upgradeStore(db); err != nil {
		if _, ok := err.(Error); ok {
			return nil, err
		}
		return nil, storeError(ErrDatabase, "failed to upgrade store",
			err)
	}

	var (
		masterPubBytes  []byte
		masterPrivBytes []byte
		sealedSeed      []byte
	)
	err := walletdb.View(db, func(tx walletdb.ReadTx) error {
		ns := tx.ReadBucket(storeBucketName)
		if ns == nil {
			return storeError(ErrNoExist, "wallet store does not "+
				"exist", nil)
		}

		keysBucket := ns.NestedReadBucket(keysBucketName)
		if keysBucket == nil {
			return storeError(ErrData, "missing keys bucket", nil)
		}
		masterPubBytes = append([]byte(nil), keysBucket.Get(masterPubKeyName)...)
		masterPrivBytes = append([]byte(nil), keysBucket.Get(masterPrivKeyName)...)
		sealedSeed = append([]byte(nil), keysBucket.Get(sealedSeedKeyName)...)
		return nil
	})
	if err != nil {
		if _, ok := err.(Error); ok {
			return nil, err
		}
		return nil, storeError(ErrDatabase, "failed to open store", err)
	}

	// Verify the public passphrase before handing the store out.
	var masterPub snacl.SecretKey
	if err := masterPub.Unmarshal(masterPubBytes); err != nil {
		return nil, storeError(ErrData, "malformed public master key", err)
	}
	defer masterPub.Zero()
	if err := masterPub.DeriveKey(&pubPass); err != nil {
		if err == snacl.ErrInvalidPassword {
			return nil, storeError(ErrWrongPassphrase, "wrong "+
				"public passphrase", nil)
		}
		return nil, storeError(ErrCrypto, "failed to verify public "+
			"passphrase", err)
	}

	var masterPriv snacl.SecretKey
	if err := masterPriv.Unmarshal(masterPrivBytes); err != nil {
		return nil, storeError(ErrData, "malformed private master key", err)
	}
	masterPriv.Zero()

	m := &Manager{
		db:         db,
		masterPriv: &masterPriv,
		sealedSeed: sealedSeed,
		locked:     true,
		depositSeq: make(map[[16]byte]uint64),
	}

	// Prime the in-memory sequence counters from the stored records.
	deposits, err := m.Deposits()
	if err != nil {
		return nil, err
	}
	m.nextDeposit = uint64(len(deposits))
	book, err := m.AddressBook()
	if err != nil {
		return nil, err
	}
	for _, rec := range book {
		if rec.Seq >= m.nextBookSeq {
			m.nextBookSeq = rec.Seq + 1
		}
	}

	return m, nil
}

// Close locks the manager and drops its reference to the database.  The
// database itself is owned and closed by the caller.
func (m *Manager) Close() {
	m.Lock()
	m.mu.Lock()
	m.db = nil
	m.mu.Unlock()
}

// Unlock derives the private master key from the passphrase, returning
// ErrWrongPassphrase when it does not match the key material the store was
// sealed with.
func (m *Manager) Unlock(privPass []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.masterPriv.DeriveKey(&privPass); err != nil {
		if err == snacl.ErrInvalidPassword {
			return storeError(ErrWrongPassphrase, "wrong private "+
				"passphrase", nil)
		}
		return storeError(ErrCrypto, "failed to derive private "+
			"master key", err)
	}

	m.locked = false
	return nil
}

// Lock zeroes the derived private master key.  Secret material is
// unavailable until the next Unlock.
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.locked {
		return
	}
	m.masterPriv.Zero()
	m.locked = true
}

// Locked returns whether the secret material is currently sealed.
func (m *Manager) Locked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

// Seed returns a copy of the wallet seed.  The caller is responsible for
// zeroing the returned slice when done with it.
func (m *Manager) Seed() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.locked {
		return nil, storeError(ErrLocked, "store is locked", nil)
	}
	seed, err := m.masterPriv.Decrypt(m.sealedSeed)
	if err != nil {
		return nil, storeError(ErrCrypto, "failed to open sealed seed", err)
	}
	return seed, nil
}

// ChangePassphrase reseals the seed under a master key derived from the
// new private passphrase.
func (m *Manager) ChangePassphrase(oldPass, newPass []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.masterPriv.DeriveKey(&oldPass); err != nil {
		if err == snacl.ErrInvalidPassword {
			return storeError(ErrWrongPassphrase, "wrong private "+
				"passphrase", nil)
		}
		return storeError(ErrCrypto, "failed to derive private "+
			"master key", err)
	}
	seed, err := m.masterPriv.Decrypt(m.sealedSeed)
	if err != nil {
		return storeError(ErrCrypto, "failed to open sealed seed", err)
	}
	defer zero.Bytes(seed)

	newMaster, err := snacl.NewSecretKey(&newPass, scryptN, scryptR, scryptP)
	if err != nil {
		return storeError(ErrCrypto, "failed to derive new master "+
			"key", err)
	}
	sealedSeed, err := newMaster.Encrypt(seed)
	if err != nil {
		newMaster.Zero()
		return storeError(ErrCrypto, "failed to reseal seed", err)
	}

	err = walletdb.Update(m.db, func(tx walletdb.ReadWriteTx) error {
		keysBucket := tx.ReadWriteBucket(storeBucketName).
			NestedReadWriteBucket(keysBucketName)
		err := keysBucket.Put(masterPrivKeyName, newMaster.Marshal())
		if err != nil {
			return err
		}
		return keysBucket.Put(sealedSeedKeyName, sealedSeed)
	})
	if err != nil {
		newMaster.Zero()
		return storeError(ErrDatabase, "failed to store new master "+
			"key", err)
	}

	m.masterPriv.Zero()
	m.masterPriv = newMaster
	m.sealedSeed = sealedSeed
	m.locked = false
	return nil
}

// Account returns the stored account record.
func (m *Manager) Account() (*AccountRecord, error) {
	var rec *AccountRecord
	err := walletdb.View(m.db, func(tx walletdb.ReadTx) error {
		acctBucket := tx.ReadBucket(storeBucketName).
			NestedReadBucket(accountBucketName)
		data := acctBucket.Get(accountKeyName)
		if data == nil {
			return storeError(ErrData, "missing account record", nil)
		}
		var err error
		rec, err = deserializeAccount(data)
		return err
	})
	if err != nil {
		if _, ok := err.(Error); ok {
			return nil, err
		}
		return nil, storeError(ErrDatabase, "failed to fetch account", err)
	}
	return rec, nil
}

// PutAccount overwrites the stored account record.
func (m *Manager) PutAccount(rec *AccountRecord) error {
	data, err := serializeAccount(rec)
	if err != nil {
		return storeError(ErrData, "failed to serialize account", err)
	}
	err = walletdb.Update(m.db, func(tx walletdb.ReadWriteTx) error {
		acctBucket := tx.ReadWriteBucket(storeBucketName).
			NestedReadWriteBucket(accountBucketName)
		return acctBucket.Put(accountKeyName, data)
	})
	if err != nil {
		return storeError(ErrDatabase, "failed to store account", err)
	}
	return nil
}

// PutDeposit inserts or updates a deposit record.  Insertion order is
// preserved so the ledger lists deposits by creation time.
func (m *Manager) PutDeposit(rec *DepositRecord) error {
	m.mu.Lock()
	seq, ok := m.depositSeq[rec.ID]
	if !ok {
		seq = m.nextDeposit
	}
	m.mu.Unlock()

	data, err := serializeDeposit(rec)
	if err != nil {
		return storeError(ErrData, "failed to serialize deposit", err)
	}
	err = walletdb.Update(m.db, func(tx walletdb.ReadWriteTx) error {
		depBucket := tx.ReadWriteBucket(storeBucketName).
			NestedReadWriteBucket(depositBucketName)
		return depBucket.Put(uint64ToKey(seq), data)
	})
	if err != nil {
		return storeError(ErrDatabase, "failed to store deposit", err)
	}

	m.mu.Lock()
	if !ok {
		m.depositSeq[rec.ID] = seq
		m.nextDeposit = seq + 1
	}
	m.mu.Unlock()
	return nil
}

// Deposits returns all deposit records in creation order.
func (m *Manager) Deposits() ([]DepositRecord, error) {
	var recs []DepositRecord
	err := walletdb.View(m.db, func(tx walletdb.ReadTx) error {
		depBucket := tx.ReadBucket(storeBucketName).
			NestedReadBucket(depositBucketName)
		return depBucket.ForEach(func(k, v []byte) error {
			rec, err := deserializeDeposit(v)
			if err != nil {
				return err
			}
			recs = append(recs, *rec)
			return nil
		})
	})
	if err != nil {
		if _, ok := err.(Error); ok {
			return nil, err
		}
		return nil, storeError(ErrDatabase, "failed to fetch deposits", err)
	}

	// Rebuild the id index as a side effect so updates find their slot.
	m.mu.Lock()
	for i := range recs {
		m.depositSeq[recs[i].ID] = uint64(i)
	}
	m.mu.Unlock()
	return recs, nil
}

// PutAddressBookEntry inserts or updates an address book record, keyed by
// address.  New records are assigned the next insertion sequence.
func (m *Manager) PutAddressBookEntry(rec *AddressBookRecord) error {
	m.mu.Lock()
	if rec.Seq == 0 {
		m.nextBookSeq++
		rec.Seq = m.nextBookSeq
	} else if rec.Seq > m.nextBookSeq {
		m.nextBookSeq = rec.Seq
	}
	m.mu.Unlock()

	data, err := serializeAddressBookEntry(rec)
	if err != nil {
		return storeError(ErrData, "failed to serialize address book "+
			"entry", err)
	}
	err = walletdb.Update(m.db, func(tx walletdb.ReadWriteTx) error {
		bookBucket := tx.ReadWriteBucket(storeBucketName).
			NestedReadWriteBucket(addrBookBucketName)
		return bookBucket.Put([]byte(rec.Address), data)
	})
	if err != nil {
		return storeError(ErrDatabase, "failed to store address book "+
			"entry", err)
	}
	return nil
}

// DeleteAddressBookEntry removes the record for the given address, if any.
func (m *Manager) DeleteAddressBookEntry(address string) error {
	err := walletdb.Update(m.db, func(tx walletdb.ReadWriteTx) error {
		bookBucket := tx.ReadWriteBucket(storeBucketName).
			NestedReadWriteBucket(addrBookBucketName)
		return bookBucket.Delete([]byte(address))
	})
	if err != nil {
		return storeError(ErrDatabase, "failed to delete address book "+
			"entry", err)
	}
	return nil
}

// AddressBook returns all address book records in insertion order.
func (m *Manager) AddressBook() ([]AddressBookRecord, error) {
	var recs []AddressBookRecord
	err := walletdb.View(m.db, func(tx walletdb.ReadTx) error {
		bookBucket := tx.ReadBucket(storeBucketName).
			NestedReadBucket(addrBookBucketName)
		return bookBucket.ForEach(func(k, v []byte) error {
			rec, err := deserializeAddressBookEntry(v)
			if err != nil {
				return err
			}
			recs = append(recs, *rec)
			return nil
		})
	})
	if err != nil {
		if _, ok := err.(Error); ok {
			return nil, err
		}
		return nil, storeError(ErrDatabase, "failed to fetch address "+
			"book", err)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Seq < recs[j].Seq
	})
	return recs, nil
}
