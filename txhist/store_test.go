// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build integration_test

package txhist

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fuegosuite/fuegowallet/internal/sqltest"
	"github.com/fuegosuite/fuegowallet/pkg/unit"
)

// testRecord returns a deterministic record for index i.  Records with
// higher indexes are newer.
func testRecord(i int) *Record {
	return &Record{
		ID:           fmt.Sprintf("tx-%04d", i),
		Hash:         fmt.Sprintf("%064x", i),
		Amount:       unit.Amount(-1000000 * int64(i+1)),
		Fee:          1000000,
		Timestamp:    time.Unix(1700000000+int64(i), 0).UTC(),
		Height:       964000 + uint64(i),
		Counterparty: "fire" + fmt.Sprintf("%095x", i)[:95],
		PaymentID:    "",
	}
}

// TestStoreInsertAndList asserts that inserted records come back newest
// first with limit and offset applied.
func TestStoreInsertAndList(t *testing.T) {
	t.Parallel()

	sqltest.RunDatabaseTest(t, func(t *testing.T,
		dbFactory sqltest.DBFactory) {

		store, err := NewStore(dbFactory(t))
		require.NoError(t, err)
		defer store.Close()

		const numRecs = 10
		for i := 0; i < numRecs; i++ {
			require.NoError(t, store.InsertTx(testRecord(i)))
		}

		n, err := store.CountTransactions()
		require.NoError(t, err)
		require.Equal(t, numRecs, n)

		// No limit returns everything, newest first.
		recs, err := store.ListTransactions(0, 0)
		require.NoError(t, err)
		require.Len(t, recs, numRecs)
		for i, rec := range recs {
			require.Equal(t, *testRecord(numRecs-1-i), rec)
		}

		// Limit and offset page through the same ordering.
		recs, err = store.ListTransactions(3, 2)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		require.Equal(t, "tx-0007", recs[0].ID)
		require.Equal(t, "tx-0005", recs[2].ID)

		// An offset past the end yields an empty page.
		recs, err = store.ListTransactions(5, numRecs)
		require.NoError(t, err)
		require.Empty(t, recs)
	})
}

// TestStoreDuplicateInsert asserts that re-inserting a transaction id
// fails instead of silently overwriting.
func TestStoreDuplicateInsert(t *testing.T) {
	t.Parallel()

	sqltest.RunDatabaseTest(t, func(t *testing.T,
		dbFactory sqltest.DBFactory) {

		store, err := NewStore(dbFactory(t))
		require.NoError(t, err)
		defer store.Close()

		rec := testRecord(0)
		require.NoError(t, store.InsertTx(rec))
		require.Error(t, store.InsertTx(rec))

		require.Error(t, store.InsertTx(nil))
	})
}
