// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/fuegosuite/fuegowallet/wstore"
)

// AddressBookEntry is a labeled address in the session's address book.
// The address is the unique key; UseCount only ever grows.
type AddressBookEntry struct {
	Address      string
	Label        string
	Description  string
	CreatedTime  time.Time
	LastUsedTime time.Time
	UseCount     uint64

	// seq preserves insertion order in the store.
	seq uint64
}

// AddAddressBookEntry adds a labeled address to the address book.  It
// returns false, without error, when the address is already present;
// re-adding is an idempotent no-op.
func (w *Wallet) AddAddressBookEntry(address, label, desc string) (bool, error) {
	if !w.chainParams.ValidAddress(address) {
		return false, walletError(ErrBadAddress, "not a valid "+
			"address for this network", nil)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.bookEntryLocked(address) != nil {
		return false, nil
	}

	entry := &AddressBookEntry{
		Address:     address,
		Label:       label,
		Description: desc,
		CreatedTime: w.clock.Now(),
	}
	if err := w.persistBookEntryLocked(entry); err != nil {
		return false, err
	}
	w.book = append(w.book, entry)

	log.Debugf("Added address book entry %q for %v", label, address)
	return true, nil
}

// RemoveAddressBookEntry removes the entry for the given address.  It
// returns false when the address is not in the book.
func (w *Wallet) RemoveAddressBookEntry(address string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, entry := range w.book {
		if entry.Address != address {
			continue
		}
		if err := w.store.DeleteAddressBookEntry(address); err != nil {
			return false, walletError(ErrDatabase, "failed to "+
				"delete address book entry", err)
		}
		w.book = append(w.book[:i], w.book[i+1:]...)
		return true, nil
	}
	return false, nil
}

// UpdateAddressBookEntry overwrites the label and/or description of an
// existing entry.  Absent options leave the corresponding field
// untouched.  It returns false when the address is not in the book.
func (w *Wallet) UpdateAddressBookEntry(address string, label,
	desc fn.Option[string]) (bool, error) {

	w.mu.Lock()
	defer w.mu.Unlock()

	entry := w.bookEntryLocked(address)
	if entry == nil {
		return false, nil
	}

	label.WhenSome(func(s string) { entry.Label = s })
	desc.WhenSome(func(s string) { entry.Description = s })

	if err := w.persistBookEntryLocked(entry); err != nil {
		return false, err
	}
	return true, nil
}

// MarkAddressUsed bumps the entry's use counter and stamps the last used
// time.  It returns false when the address is not in the book.
func (w *Wallet) MarkAddressUsed(address string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.markAddressUsedLocked(address)
}

// markAddressUsedLocked is the lock-already-held form of MarkAddressUsed
// for callers inside another session operation, such as Send.
func (w *Wallet) markAddressUsedLocked(address string) (bool, error) {
	entry := w.bookEntryLocked(address)
	if entry == nil {
		return false, nil
	}

	entry.UseCount++
	entry.LastUsedTime = w.clock.Now()
	if err := w.persistBookEntryLocked(entry); err != nil {
		return false, err
	}
	return true, nil
}

// AddressBookEntry returns a copy of the entry for the given address and
// whether one exists.
func (w *Wallet) AddressBookEntry(address string) (AddressBookEntry, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entry := w.bookEntryLocked(address)
	if entry == nil {
		return AddressBookEntry{}, false
	}
	return *entry, true
}

// AddressBook returns all entries in insertion order.
func (w *Wallet) AddressBook() []AddressBookEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	book := make([]AddressBookEntry, 0, len(w.book))
	for _, entry := range w.book {
		book = append(book, *entry)
	}
	return book
}

// bookEntryLocked finds an entry by address.  The session lock must be
// held.
func (w *Wallet) bookEntryLocked(address string) *AddressBookEntry {
	for _, entry := range w.book {
		if entry.Address == address {
			return entry
		}
	}
	return nil
}

// persistBookEntryLocked writes an entry to the wallet store, assigning
// its insertion sequence on first write.  The session lock must be held.
func (w *Wallet) persistBookEntryLocked(entry *AddressBookEntry) error {
	rec := &wstore.AddressBookRecord{
		Address:      entry.Address,
		Label:        entry.Label,
		Description:  entry.Description,
		CreatedTime:  entry.CreatedTime,
		LastUsedTime: entry.LastUsedTime,
		UseCount:     entry.UseCount,
		Seq:          entry.seq,
	}
	if err := w.store.PutAddressBookEntry(rec); err != nil {
		return walletError(ErrDatabase, "failed to persist address "+
			"book entry", err)
	}
	entry.seq = rec.Seq
	return nil
}

// loadAddressBook populates the in-memory address book from the wallet
// store.
func (w *Wallet) loadAddressBook() error {
	recs, err := w.store.AddressBook()
	if err != nil {
		return walletError(ErrDatabase, "failed to load address "+
			"book", err)
	}
	w.book = make([]*AddressBookEntry, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		w.book = append(w.book, &AddressBookEntry{
			Address:      rec.Address,
			Label:        rec.Label,
			Description:  rec.Description,
			CreatedTime:  rec.CreatedTime,
			LastUsedTime: rec.LastUsedTime,
			UseCount:     rec.UseCount,
			seq:          rec.Seq,
		})
	}
	return nil
}
