// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
	"github.com/fuegosuite/fuegowallet/walletdb"
	_ "github.com/fuegosuite/fuegowallet/walletdb/bdb"
)

var (
	testPubPass  = []byte("public")
	testPrivPass = []byte("private")
	testSeed     = []byte{
		0x2a, 0x64, 0xdf, 0x08, 0x5e, 0xef, 0xed, 0xd8, 0xbf,
		0xdb, 0xb3, 0x31, 0x76, 0xb5, 0xba, 0x2e, 0x62, 0xe8,
		0xbe, 0x8b, 0x56, 0xc8, 0x83, 0x77, 0x95, 0x59, 0x8b,
		0xb6, 0xc4, 0x40, 0xb0, 0x77,
	}
)

func testAccount() *AccountRecord {
	return &AccountRecord{
		Address:         "fire0001",
		Balance:         unit.Amount(5_0000000),
		UnlockedBalance: unit.Amount(3_0000000),
		RestoreHeight:   100,
		AddrIndex:       1,
		CreatedAt:       time.Unix(1700000000, 0),
	}
}

// testDB creates a fresh bolt-backed walletdb in a temporary directory that
// is cleaned up with the test.
func testDB(t *testing.T) walletdb.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "store.db")
	db, err := walletdb.Create("bdb", dbPath, true, 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// testStore creates a store in a fresh database and opens a manager over it.
func testStore(t *testing.T) (walletdb.DB, *Manager) {
	t.Helper()

	db := testDB(t)
	err := Create(db, testPubPass, testPrivPass, testSeed, testAccount())
	require.NoError(t, err)

	m, err := Open(db, testPubPass)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return db, m
}

func TestMain(m *testing.M) {
	// Drop the scrypt cost so key derivation does not dominate the tests.
	scryptN, scryptR, scryptP = 16, 8, 1
	os.Exit(m.Run())
}

func TestCreateOpen(t *testing.T) {
	t.Parallel()

	db := testDB(t)

	// Opening before creation must fail with ErrNoExist.
	_, err := Open(db, testPubPass)
	require.True(t, IsError(err, ErrNoExist))

	err = Create(db, testPubPass, testPrivPass, testSeed, testAccount())
	require.NoError(t, err)

	// A second creation attempt is rejected.
	err = Create(db, testPubPass, testPrivPass, testSeed, testAccount())
	require.True(t, IsError(err, ErrAlreadyExists))

	// The wrong public passphrase must not open the store.
	_, err = Open(db, []byte("not the public passphrase"))
	require.True(t, IsError(err, ErrWrongPassphrase))

	m, err := Open(db, testPubPass)
	require.NoError(t, err)
	defer m.Close()

	// The manager starts out locked and the account record round-trips.
	require.True(t, m.Locked())
	account, err := m.Account()
	require.NoError(t, err)
	require.Equal(t, testAccount(), account)
}

func TestUnlockLock(t *testing.T) {
	t.Parallel()

	_, m := testStore(t)

	// Secret material is unavailable while locked.
	_, err := m.Seed()
	require.True(t, IsError(err, ErrLocked))

	err = m.Unlock([]byte("wrong"))
	require.True(t, IsError(err, ErrWrongPassphrase))
	require.True(t, m.Locked())

	require.NoError(t, m.Unlock(testPrivPass))
	require.False(t, m.Locked())

	seed, err := m.Seed()
	require.NoError(t, err)
	require.Equal(t, testSeed, seed)

	m.Lock()
	require.True(t, m.Locked())
	_, err = m.Seed()
	require.True(t, IsError(err, ErrLocked))
}

func TestChangePassphrase(t *testing.T) {
	t.Parallel()

	db, m := testStore(t)

	newPass := []byte("new private passphrase")
	err := m.ChangePassphrase([]byte("wrong"), newPass)
	require.True(t, IsError(err, ErrWrongPassphrase))

	require.NoError(t, m.ChangePassphrase(testPrivPass, newPass))

	// The seed must still open under the new passphrase, including after
	// the store is reopened from disk.
	seed, err := m.Seed()
	require.NoError(t, err)
	require.Equal(t, testSeed, seed)
	m.Close()

	m2, err := Open(db, testPubPass)
	require.NoError(t, err)
	defer m2.Close()

	err = m2.Unlock(testPrivPass)
	require.True(t, IsError(err, ErrWrongPassphrase))
	require.NoError(t, m2.Unlock(newPass))

	seed, err = m2.Seed()
	require.NoError(t, err)
	require.Equal(t, testSeed, seed)
}

func TestAccountUpdate(t *testing.T) {
	t.Parallel()

	db, m := testStore(t)

	account := testAccount()
	account.Balance += unit.Amount(1_0000000)
	account.UnlockedBalance += unit.Amount(1_0000000)
	account.AddrIndex++
	require.NoError(t, m.PutAccount(account))
	m.Close()

	m2, err := Open(db, testPubPass)
	require.NoError(t, err)
	defer m2.Close()

	got, err := m2.Account()
	require.NoError(t, err)
	require.Equal(t, account, got)
}

func TestDepositOrder(t *testing.T) {
	t.Parallel()

	db, m := testStore(t)

	// Insert deposits and verify they read back in creation order.
	deposits := make([]DepositRecord, 3)
	for i := range deposits {
		deposits[i] = DepositRecord{
			ID:           [16]byte{byte(i + 1)},
			Amount:       unit.Amount((i + 1) * 1_0000000),
			TermDays:     30,
			RateBps:      500,
			Interest:     unit.Amount(41095),
			Status:       1,
			UnlockHeight: uint64(1000 + i),
			CreatingTxID: "tx-create",
			CreatedAt:    time.Unix(1700000000+int64(i), 0),
		}
		require.NoError(t, m.PutDeposit(&deposits[i]))
	}

	got, err := m.Deposits()
	require.NoError(t, err)
	require.Equal(t, deposits, got)

	// Updating a deposit must keep its slot in the ordering.
	deposits[1].Status = 2
	deposits[1].SpendingTxID = "tx-spend"
	deposits[1].SpendingHeight = 2000
	require.NoError(t, m.PutDeposit(&deposits[1]))

	got, err = m.Deposits()
	require.NoError(t, err)
	require.Equal(t, deposits, got)

	// The ordering and the update both survive a reopen.
	m.Close()
	m2, err := Open(db, testPubPass)
	require.NoError(t, err)
	defer m2.Close()

	got, err = m2.Deposits()
	require.NoError(t, err)
	require.Equal(t, deposits, got)

	// New deposits after a reopen append rather than overwrite.
	next := DepositRecord{
		ID:        [16]byte{0xff},
		Amount:    unit.Amount(9_0000000),
		TermDays:  90,
		RateBps:   800,
		Status:    0,
		CreatedAt: time.Unix(1700000100, 0),
	}
	require.NoError(t, m2.PutDeposit(&next))

	got, err = m2.Deposits()
	require.NoError(t, err)
	require.Equal(t, append(deposits, next), got)
}

func TestAddressBook(t *testing.T) {
	t.Parallel()

	db, m := testStore(t)

	entries := []AddressBookRecord{
		{
			Address:     "fire0002",
			Label:       "exchange",
			Description: "hot wallet",
			CreatedTime: time.Unix(1700000000, 0),
		},
		{
			Address:     "fire0003",
			Label:       "pool",
			CreatedTime: time.Unix(1700000001, 0),
		},
		{
			Address:     "fire0004",
			Label:       "cold storage",
			CreatedTime: time.Unix(1700000002, 0),
		},
	}
	for i := range entries {
		require.NoError(t, m.PutAddressBookEntry(&entries[i]))
	}

	got, err := m.AddressBook()
	require.NoError(t, err)
	require.Equal(t, entries, got)

	// Updating an entry in place keeps its position.
	entries[0].UseCount++
	entries[0].LastUsedTime = time.Unix(1700000500, 0)
	require.NoError(t, m.PutAddressBookEntry(&entries[0]))

	got, err = m.AddressBook()
	require.NoError(t, err)
	require.Equal(t, entries, got)

	// Deletion removes only the targeted entry.
	require.NoError(t, m.DeleteAddressBookEntry(entries[1].Address))

	got, err = m.AddressBook()
	require.NoError(t, err)
	require.Equal(t, []AddressBookRecord{entries[0], entries[2]}, got)

	// Insertion order survives a reopen, and new entries are appended
	// after the highest stored sequence.
	m.Close()
	m2, err := Open(db, testPubPass)
	require.NoError(t, err)
	defer m2.Close()

	next := AddressBookRecord{
		Address:     "fire0005",
		Label:       "merchant",
		CreatedTime: time.Unix(1700000003, 0),
	}
	require.NoError(t, m2.PutAddressBookEntry(&next))

	got, err = m2.AddressBook()
	require.NoError(t, err)
	require.Equal(t, []AddressBookRecord{entries[0], entries[2], next}, got)
}

func TestOpenNewerVersion(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	err := Create(db, testPubPass, testPrivPass, testSeed, testAccount())
	require.NoError(t, err)

	// Bump the stored schema version past the latest known one.
	err = walletdb.Update(db, func(tx walletdb.ReadWriteTx) error {
		ns := tx.ReadWriteBucket(storeBucketName)
		return putVersion(ns, latestVersion+1)
	})
	require.NoError(t, err)

	_, err = Open(db, testPubPass)
	require.True(t, IsError(err, ErrData))
}
