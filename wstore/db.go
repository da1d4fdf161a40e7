// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wstore

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/lightningnetwork/lnd/tlv"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
	"github.com/fuegosuite/fuegowallet/walletdb"
)

// Bucket names and fixed keys.  All buckets live under the store's top
// level namespace bucket.
var (
	storeBucketName    = []byte("wstore")
	accountBucketName  = []byte("account")
	keysBucketName     = []byte("keys")
	depositBucketName  = []byte("deposits")
	addrBookBucketName = []byte("addrbook")

	accountKeyName    = []byte("account")
	masterPubKeyName  = []byte("mkey-pub")
	masterPrivKeyName = []byte("mkey-priv")
	sealedSeedKeyName = []byte("sealed-seed")
	versionKeyName    = []byte("version")
)

// TLV type numbers for the account record.
const (
	typeAccountAddress       tlv.Type = 1
	typeAccountBalance       tlv.Type = 2
	typeAccountUnlocked      tlv.Type = 3
	typeAccountRestoreHeight tlv.Type = 4
	typeAccountAddrIndex     tlv.Type = 5
	typeAccountCreatedAt     tlv.Type = 6
)

// TLV type numbers for deposit records.
const (
	typeDepositID             tlv.Type = 1
	typeDepositAmount         tlv.Type = 2
	typeDepositTermDays       tlv.Type = 3
	typeDepositRateBps        tlv.Type = 4
	typeDepositInterest       tlv.Type = 5
	typeDepositStatus         tlv.Type = 6
	typeDepositUnlockHeight   tlv.Type = 7
	typeDepositCreatingTxID   tlv.Type = 8
	typeDepositCreatingHeight tlv.Type = 9
	typeDepositSpendingTxID   tlv.Type = 10
	typeDepositSpendingHeight tlv.Type = 11
	typeDepositCreatedAt      tlv.Type = 12
)

// TLV type numbers for address book records.
const (
	typeEntryAddress  tlv.Type = 1
	typeEntryLabel    tlv.Type = 2
	typeEntryDesc     tlv.Type = 3
	typeEntryCreated  tlv.Type = 4
	typeEntryLastUsed tlv.Type = 5
	typeEntryUseCount tlv.Type = 6
	typeEntrySeq      tlv.Type = 7
)

// AccountRecord is the stored form of the wallet account.
type AccountRecord struct {
	Address         string
	Balance         unit.Amount
	UnlockedBalance unit.Amount
	RestoreHeight   uint64
	AddrIndex       uint32
	CreatedAt       time.Time
}

// DepositRecord is the stored form of a term deposit.  Status values match
// the session core's deposit status enum.
type DepositRecord struct {
	ID             [16]byte
	Amount         unit.Amount
	TermDays       uint32
	RateBps        uint32
	Interest       unit.Amount
	Status         uint8
	UnlockHeight   uint64
	CreatingTxID   string
	CreatingHeight uint64
	SpendingTxID   string
	SpendingHeight uint64
	CreatedAt      time.Time
}

// AddressBookRecord is the stored form of an address book entry.  Seq
// preserves insertion order across restarts.
type AddressBookRecord struct {
	Address      string
	Label        string
	Description  string
	CreatedTime  time.Time
	LastUsedTime time.Time
	UseCount     uint64
	Seq          uint64
}

func uint64ToKey(n uint64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], n)
	return key[:]
}

func timeToUnix(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(t.Unix())
}

func unixToTime(n uint64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(int64(n), 0)
}

// serializeAccount encodes an account record as a TLV stream.
func serializeAccount(rec *AccountRecord) ([]byte, error) {
	addr := []byte(rec.Address)
	balance := uint64(rec.Balance)
	unlocked := uint64(rec.UnlockedBalance)
	created := timeToUnix(rec.CreatedAt)

	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(typeAccountAddress, &addr),
		tlv.MakePrimitiveRecord(typeAccountBalance, &balance),
		tlv.MakePrimitiveRecord(typeAccountUnlocked, &unlocked),
		tlv.MakePrimitiveRecord(
			typeAccountRestoreHeight, &rec.RestoreHeight,
		),
		tlv.MakePrimitiveRecord(typeAccountAddrIndex, &rec.AddrIndex),
		tlv.MakePrimitiveRecord(typeAccountCreatedAt, &created),
	)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := stream.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeAccount decodes an account record from its TLV stream.
func deserializeAccount(data []byte) (*AccountRecord, error) {
	var (
		rec      AccountRecord
		addr     []byte
		balance  uint64
		unlocked uint64
		created  uint64
	)
	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(typeAccountAddress, &addr),
		tlv.MakePrimitiveRecord(typeAccountBalance, &balance),
		tlv.MakePrimitiveRecord(typeAccountUnlocked, &unlocked),
		tlv.MakePrimitiveRecord(
			typeAccountRestoreHeight, &rec.RestoreHeight,
		),
		tlv.MakePrimitiveRecord(typeAccountAddrIndex, &rec.AddrIndex),
		tlv.MakePrimitiveRecord(typeAccountCreatedAt, &created),
	)
	if err != nil {
		return nil, err
	}
	if err := stream.Decode(bytes.NewReader(data)); err != nil {
		return nil, storeError(ErrData, "malformed account record", err)
	}

	rec.Address = string(addr)
	rec.Balance = unit.Amount(balance)
	rec.UnlockedBalance = unit.Amount(unlocked)
	rec.CreatedAt = unixToTime(created)
	return &rec, nil
}

// serializeDeposit encodes a deposit record as a TLV stream.
func serializeDeposit(rec *DepositRecord) ([]byte, error) {
	id := rec.ID[:]
	amount := uint64(rec.Amount)
	interest := uint64(rec.Interest)
	creatingTxID := []byte(rec.CreatingTxID)
	spendingTxID := []byte(rec.SpendingTxID)
	created := timeToUnix(rec.CreatedAt)

	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(typeDepositID, &id),
		tlv.MakePrimitiveRecord(typeDepositAmount, &amount),
		tlv.MakePrimitiveRecord(typeDepositTermDays, &rec.TermDays),
		tlv.MakePrimitiveRecord(typeDepositRateBps, &rec.RateBps),
		tlv.MakePrimitiveRecord(typeDepositInterest, &interest),
		tlv.MakePrimitiveRecord(typeDepositStatus, &rec.Status),
		tlv.MakePrimitiveRecord(
			typeDepositUnlockHeight, &rec.UnlockHeight,
		),
		tlv.MakePrimitiveRecord(typeDepositCreatingTxID, &creatingTxID),
		tlv.MakePrimitiveRecord(
			typeDepositCreatingHeight, &rec.CreatingHeight,
		),
		tlv.MakePrimitiveRecord(typeDepositSpendingTxID, &spendingTxID),
		tlv.MakePrimitiveRecord(
			typeDepositSpendingHeight, &rec.SpendingHeight,
		),
		tlv.MakePrimitiveRecord(typeDepositCreatedAt, &created),
	)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := stream.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeDeposit decodes a deposit record from its TLV stream.
func deserializeDeposit(data []byte) (*DepositRecord, error) {
	var (
		rec          DepositRecord
		id           []byte
		amount       uint64
		interest     uint64
		creatingTxID []byte
		spendingTxID []byte
		created      uint64
	)
	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(typeDepositID, &id),
		tlv.MakePrimitiveRecord(typeDepositAmount, &amount),
		tlv.MakePrimitiveRecord(typeDepositTermDays, &rec.TermDays),
		tlv.MakePrimitiveRecord(typeDepositRateBps, &rec.RateBps),
		tlv.MakePrimitiveRecord(typeDepositInterest, &interest),
		tlv.MakePrimitiveRecord(typeDepositStatus, &rec.Status),
		tlv.MakePrimitiveRecord(
			typeDepositUnlockHeight, &rec.UnlockHeight,
		),
		tlv.MakePrimitiveRecord(typeDepositCreatingTxID, &creatingTxID),
		tlv.MakePrimitiveRecord(
			typeDepositCreatingHeight, &rec.CreatingHeight,
		),
		tlv.MakePrimitiveRecord(typeDepositSpendingTxID, &spendingTxID),
		tlv.MakePrimitiveRecord(
			typeDepositSpendingHeight, &rec.SpendingHeight,
		),
		tlv.MakePrimitiveRecord(typeDepositCreatedAt, &created),
	)
	if err != nil {
		return nil, err
	}
	if err := stream.Decode(bytes.NewReader(data)); err != nil {
		return nil, storeError(ErrData, "malformed deposit record", err)
	}
	if len(id) != len(rec.ID) {
		return nil, storeError(ErrData, "malformed deposit id", nil)
	}

	copy(rec.ID[:], id)
	rec.Amount = unit.Amount(amount)
	rec.Interest = unit.Amount(interest)
	rec.CreatingTxID = string(creatingTxID)
	rec.SpendingTxID = string(spendingTxID)
	rec.CreatedAt = unixToTime(created)
	return &rec, nil
}

// serializeAddressBookEntry encodes an address book record as a TLV stream.
func serializeAddressBookEntry(rec *AddressBookRecord) ([]byte, error) {
	addr := []byte(rec.Address)
	label := []byte(rec.Label)
	desc := []byte(rec.Description)
	created := timeToUnix(rec.CreatedTime)
	lastUsed := timeToUnix(rec.LastUsedTime)

	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(typeEntryAddress, &addr),
		tlv.MakePrimitiveRecord(typeEntryLabel, &label),
		tlv.MakePrimitiveRecord(typeEntryDesc, &desc),
		tlv.MakePrimitiveRecord(typeEntryCreated, &created),
		tlv.MakePrimitiveRecord(typeEntryLastUsed, &lastUsed),
		tlv.MakePrimitiveRecord(typeEntryUseCount, &rec.UseCount),
		tlv.MakePrimitiveRecord(typeEntrySeq, &rec.Seq),
	)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := stream.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeAddressBookEntry decodes an address book record from its TLV
// stream.
func deserializeAddressBookEntry(data []byte) (*AddressBookRecord, error) {
	var (
		rec      AddressBookRecord
		addr     []byte
		label    []byte
		desc     []byte
		created  uint64
		lastUsed uint64
	)
	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(typeEntryAddress, &addr),
		tlv.MakePrimitiveRecord(typeEntryLabel, &label),
		tlv.MakePrimitiveRecord(typeEntryDesc, &desc),
		tlv.MakePrimitiveRecord(typeEntryCreated, &created),
		tlv.MakePrimitiveRecord(typeEntryLastUsed, &lastUsed),
		tlv.MakePrimitiveRecord(typeEntryUseCount, &rec.UseCount),
		tlv.MakePrimitiveRecord(typeEntrySeq, &rec.Seq),
	)
	if err != nil {
		return nil, err
	}
	if err := stream.Decode(bytes.NewReader(data)); err != nil {
		return nil, storeError(
			ErrData, "malformed address book record", err,
		)
	}

	rec.Address = string(addr)
	rec.Label = string(label)
	rec.Description = string(desc)
	rec.CreatedTime = unixToTime(created)
	rec.LastUsedTime = unixToTime(lastUsed)
	return &rec, nil
}

// fetchVersion reads the schema version from the store's namespace bucket.
func fetchVersion(ns walletdb.ReadBucket) (uint32, error) {
	data := ns.Get(versionKeyName)
	if len(data) != 4 {
		return 0, storeError(ErrData, "malformed schema version", nil)
	}
	return binary.BigEndian.Uint32(data), nil
}

// putVersion writes the schema version to the store's namespace bucket.
func putVersion(ns walletdb.ReadWriteBucket, version uint32) error {
	var data [4]byte
	binary.BigEndian.PutUint32(data[:], version)
	if err := ns.Put(versionKeyName, data[:]); err != nil {
		return storeError(ErrDatabase, "failed to store version", err)
	}
	return nil
}
