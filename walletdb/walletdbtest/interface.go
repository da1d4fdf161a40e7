// Copyright (c) 2014 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package walletdbtest provides exported tests that exercise the full
// walletdb interface against any registered driver.  Each backend driver
// imports this package from its own test file and invokes TestInterface to
// ensure the driver properly implements the interface.
package walletdbtest

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/fuegosuite/fuegowallet/walletdb"
)

// errSubTestFail is used to signal that a sub test returned false.
var errSubTestFail = fmt.Errorf("sub test failure")

// testContext is used to store context information about a running test
// which is passed into helper functions.
type testContext struct {
	t         Tester
	db        walletdb.DB
	bucketKey []byte
}

// rollbackValues returns a copy of the provided map with all values set to
// an empty string.  This is used to test that values are not present.
func rollbackValues(values map[string]string) map[string]string {
	retMap := make(map[string]string, len(values))
	for k := range values {
		retMap[k] = ""
	}
	return retMap
}

// testGetValues checks that all of the provided key/value pairs can be
// retrieved from the database and the retrieved values match the provided
// values.  An empty string value is interpreted as expecting a nil value.
func testGetValues(tc *testContext, bucket walletdb.ReadBucket,
	values map[string]string) bool {

	for k, v := range values {
		var vBytes []byte
		if v != "" {
			vBytes = []byte(v)
		}

		gotValue := bucket.Get([]byte(k))
		if !bytes.Equal(gotValue, vBytes) {
			tc.t.Errorf("Get: unexpected value for %q - got %q, "+
				"want %q", k, gotValue, vBytes)
			return false
		}
	}

	return true
}

// testPutValues stores all of the provided key/value pairs in the passed
// bucket while checking for errors.
func testPutValues(tc *testContext, bucket walletdb.ReadWriteBucket,
	values map[string]string) bool {

	for k, v := range values {
		var vBytes []byte
		if v != "" {
			vBytes = []byte(v)
		}
		if err := bucket.Put([]byte(k), vBytes); err != nil {
			tc.t.Errorf("Put: unexpected error: %v", err)
			return false
		}
	}

	return true
}

// testDeleteValues removes all of the provided key/value pairs from the
// passed bucket.
func testDeleteValues(tc *testContext, bucket walletdb.ReadWriteBucket,
	values map[string]string) bool {

	for k := range values {
		if err := bucket.Delete([]byte(k)); err != nil {
			tc.t.Errorf("Delete: unexpected error: %v", err)
			return false
		}
	}

	return true
}

// testNestedBucket reruns the testBucketInterface against a nested bucket
// along with a counter to only test a couple of level deep.
func testNestedBucket(tc *testContext, testBucket walletdb.ReadWriteBucket,
	depth int) bool {

	// Don't go more than a couple of levels deep.
	if depth > 1 {
		return true
	}

	return testBucketInterface(tc, testBucket, depth+1)
}

// testBucketInterface ensures the bucket interface is working properly by
// exercising all of its functions.
func testBucketInterface(tc *testContext, bucket walletdb.ReadWriteBucket,
	depth int) bool {

	// keyValues holds the keys and values to use when putting values
	// into the bucket.
	keyValues := map[string]string{
		"bucketkey1": "foo1",
		"bucketkey2": "foo2",
		"bucketkey3": "foo3",
	}
	if !testPutValues(tc, bucket, keyValues) {
		return false
	}

	if !testGetValues(tc, bucket, keyValues) {
		return false
	}

	// Iterate all of the keys using ForEach while making sure the stored
	// values are the expected values.
	keysFound := make(map[string]struct{}, len(keyValues))
	err := bucket.ForEach(func(k, v []byte) error {
		kString := string(k)
		wantV, ok := keyValues[kString]
		if !ok {
			return fmt.Errorf("ForEach: key '%s' should not exist",
				kString)
		}

		if !bytes.Equal(v, []byte(wantV)) {
			return fmt.Errorf("ForEach: value for key '%s' does "+
				"not match - got %s, want %s", kString, v,
				wantV)
		}

		keysFound[kString] = struct{}{}
		return nil
	})
	if err != nil {
		tc.t.Errorf("%v", err)
		return false
	}

	// Ensure all keys were iterated.
	for k := range keyValues {
		if _, ok := keysFound[k]; !ok {
			tc.t.Errorf("ForEach: key '%s' was not iterated when "+
				"it should have been", k)
			return false
		}
	}

	// Delete the keys and ensure they were deleted.
	if !testDeleteValues(tc, bucket, keyValues) {
		return false
	}
	if !testGetValues(tc, bucket, rollbackValues(keyValues)) {
		return false
	}

	// Ensure creating a new bucket works as expected.
	testBucketName := []byte("testbucket")
	testBucket, err := bucket.CreateBucket(testBucketName)
	if err != nil {
		tc.t.Errorf("CreateBucket: unexpected error: %v", err)
		return false
	}
	if !testNestedBucket(tc, testBucket, depth) {
		return false
	}

	// Ensure creating a bucket that already exists fails with the
	// expected error.
	if _, err := bucket.CreateBucket(testBucketName); err != walletdb.ErrBucketExists {
		tc.t.Errorf("CreateBucket: unexpected error - got %v, "+
			"want %v", err, walletdb.ErrBucketExists)
		return false
	}

	// Ensure CreateBucketIfNotExists returns an existing bucket.
	testBucket, err = bucket.CreateBucketIfNotExists(testBucketName)
	if err != nil {
		tc.t.Errorf("CreateBucketIfNotExists: unexpected error: %v",
			err)
		return false
	}
	if !testNestedBucket(tc, testBucket, depth) {
		return false
	}

	// Ensure retrieving an existing bucket works as expected.
	testBucket = bucket.NestedReadWriteBucket(testBucketName)
	if testBucket == nil {
		tc.t.Errorf("NestedReadWriteBucket: unexpected nil bucket")
		return false
	}
	if !testNestedBucket(tc, testBucket, depth) {
		return false
	}

	// Ensure deleting a bucket works as intended.
	if err := bucket.DeleteNestedBucket(testBucketName); err != nil {
		tc.t.Errorf("DeleteNestedBucket: unexpected error: %v", err)
		return false
	}
	if b := bucket.NestedReadWriteBucket(testBucketName); b != nil {
		tc.t.Errorf("DeleteNestedBucket: bucket '%s' still exists",
			testBucketName)
		return false
	}

	// Ensure deleting a bucket that doesn't exist returns the expected
	// error.
	err = bucket.DeleteNestedBucket(testBucketName)
	if err != walletdb.ErrBucketNotFound {
		tc.t.Errorf("DeleteNestedBucket: unexpected error - got %v, "+
			"want %v", err, walletdb.ErrBucketNotFound)
		return false
	}

	// Ensure CreateBucketIfNotExists creates a new bucket when it doesn't
	// already exist.
	testBucket, err = bucket.CreateBucketIfNotExists(testBucketName)
	if err != nil {
		tc.t.Errorf("CreateBucketIfNotExists: unexpected error: %v",
			err)
		return false
	}
	if !testNestedBucket(tc, testBucket, depth) {
		return false
	}

	// Delete the test bucket to avoid leaving it around for future
	// calls.
	if err := bucket.DeleteNestedBucket(testBucketName); err != nil {
		tc.t.Errorf("DeleteNestedBucket: unexpected error: %v", err)
		return false
	}

	return true
}

// testCursorInterface ensures the cursor itnerface is working properly by
// exercising all of its functions against the passed bucket.
func testCursorInterface(tc *testContext, bucket walletdb.ReadWriteBucket) bool {
	// keyValues holds the keys and values to use when putting values
	// into the bucket.  The keys are deliberately inserted out of order
	// to ensure the cursor iterates in byte order.
	unsortedValues := map[string]string{
		"cursor2": "val2",
		"cursor4": "val4",
		"cursor1": "val1",
		"cursor3": "val3",
	}
	if !testPutValues(tc, bucket, unsortedValues) {
		return false
	}

	sortedKeys := make([]string, 0, len(unsortedValues))
	for k := range unsortedValues {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)

	// Ensure forward iteration returns the keys in byte order.
	cursor := bucket.ReadCursor()
	idx := 0
	for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
		wantK := sortedKeys[idx]
		wantV := unsortedValues[wantK]
		if string(k) != wantK || string(v) != wantV {
			tc.t.Errorf("cursor Next: unexpected pair %d - got "+
				"(%s, %s), want (%s, %s)", idx, k, v, wantK,
				wantV)
			return false
		}
		idx++
	}
	if idx != len(sortedKeys) {
		tc.t.Errorf("cursor Next: iterated %d pairs, want %d", idx,
			len(sortedKeys))
		return false
	}

	// Ensure reverse iteration returns the keys in reverse byte order.
	idx = len(sortedKeys) - 1
	for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
		wantK := sortedKeys[idx]
		wantV := unsortedValues[wantK]
		if string(k) != wantK || string(v) != wantV {
			tc.t.Errorf("cursor Prev: unexpected pair %d - got "+
				"(%s, %s), want (%s, %s)", idx, k, v, wantK,
				wantV)
			return false
		}
		idx--
	}
	if idx != -1 {
		tc.t.Errorf("cursor Prev: stopped at index %d, want -1", idx)
		return false
	}

	// Ensure Seek positions the cursor at the next key when the seek key
	// does not exist.
	k, _ := cursor.Seek([]byte("cursor25"))
	if string(k) != "cursor3" {
		tc.t.Errorf("cursor Seek: unexpected key - got %s, want %s",
			k, "cursor3")
		return false
	}

	// Ensure a read/write cursor can delete the pair it is positioned
	// at without invalidating the cursor.
	rwCursor := bucket.ReadWriteCursor()
	if k, _ := rwCursor.First(); string(k) != sortedKeys[0] {
		tc.t.Errorf("rw cursor First: unexpected key %s", k)
		return false
	}
	if err := rwCursor.Delete(); err != nil {
		tc.t.Errorf("cursor Delete: unexpected error: %v", err)
		return false
	}
	if bucket.Get([]byte(sortedKeys[0])) != nil {
		tc.t.Errorf("cursor Delete: key '%s' still exists",
			sortedKeys[0])
		return false
	}

	// Remove the remaining pairs to avoid leaving them around for future
	// calls.
	remaining := make(map[string]string, len(unsortedValues))
	for _, k := range sortedKeys[1:] {
		remaining[k] = unsortedValues[k]
	}
	return testDeleteValues(tc, bucket, remaining)
}

// testManualTxInterface ensures that manual transactions work as expected.
func testManualTxInterface(tc *testContext) bool {
	db := tc.db

	// populateValues tests that populating values works as expected.
	//
	// When the writable flag is false, a read-only transaction is created,
	// standard bucket tests for read-only transactions are performed, and
	// the Commit function is checked to ensure it fails as expected.
	//
	// Otherwise, a read-write transaction is created, the values are
	// written, standard bucket tests for read-write transactions are
	// performed, and then the transaction is either committed or rolled
	// back depending on the flag.
	populateValues := func(rollback bool, putValues map[string]string) bool {
		tx, err := db.BeginReadWriteTx()
		if err != nil {
			tc.t.Errorf("BeginReadWriteTx: unexpected error %v", err)
			return false
		}

		rootBucket := tx.ReadWriteBucket(tc.bucketKey)
		if rootBucket == nil {
			tc.t.Errorf("ReadWriteBucket: unexpected nil root bucket")
			_ = tx.Rollback()
			return false
		}

		if !testPutValues(tc, rootBucket, putValues) {
			_ = tx.Rollback()
			return false
		}

		if rollback {
			if err := tx.Rollback(); err != nil {
				tc.t.Errorf("Rollback: unexpected error %v", err)
				return false
			}
		} else {
			if err := tx.Commit(); err != nil {
				tc.t.Errorf("Commit: unexpected error %v", err)
				return false
			}
		}

		return true
	}

	// checkValues starts a read-only transaction and checks the values.
	checkValues := func(expectedValues map[string]string) bool {
		tx, err := db.BeginReadTx()
		if err != nil {
			tc.t.Errorf("BeginReadTx: unexpected error %v", err)
			return false
		}

		rootBucket := tx.ReadBucket(tc.bucketKey)
		if rootBucket == nil {
			tc.t.Errorf("ReadBucket: unexpected nil root bucket")
			_ = tx.Rollback()
			return false
		}

		if !testGetValues(tc, rootBucket, expectedValues) {
			_ = tx.Rollback()
			return false
		}

		if err := tx.Rollback(); err != nil {
			tc.t.Errorf("Commit: unexpected error %v", err)
			return false
		}

		return true
	}

	// deleteValues starts a read-write transaction and deletes the keys
	// in the passed key/value pairs.
	deleteValues := func(values map[string]string) bool {
		tx, err := db.BeginReadWriteTx()
		if err != nil {
			tc.t.Errorf("BeginReadWriteTx: unexpected error %v", err)
			return false
		}

		rootBucket := tx.ReadWriteBucket(tc.bucketKey)
		if rootBucket == nil {
			tc.t.Errorf("ReadWriteBucket: unexpected nil root bucket")
			_ = tx.Rollback()
			return false
		}

		if !testDeleteValues(tc, rootBucket, values) {
			_ = tx.Rollback()
			return false
		}

		if !testGetValues(tc, rootBucket, rollbackValues(values)) {
			_ = tx.Rollback()
			return false
		}

		if err := tx.Commit(); err != nil {
			tc.t.Errorf("Commit: unexpected error %v", err)
			return false
		}

		return true
	}

	// keyValues holds the keys and values to use when putting values
	// into a bucket.
	keyValues := map[string]string{
		"umtxkey1": "foo1",
		"umtxkey2": "foo2",
		"umtxkey3": "foo3",
	}

	// Ensure that attempting populating the values using a rollback does
	// not modify the database.
	if !populateValues(true, keyValues) {
		return false
	}
	if !checkValues(rollbackValues(keyValues)) {
		return false
	}

	// Ensure that committing the values populates the database as
	// expected.
	if !populateValues(false, keyValues) {
		return false
	}
	if !checkValues(keyValues) {
		return false
	}

	// Clean up the keys.
	if !deleteValues(keyValues) {
		return false
	}

	return true
}

// testNamespaceAndTxInterfaces creates the top level bucket the context
// tests operate against and exercises the managed transaction helpers as
// well as the full bucket and cursor interfaces.
func testNamespaceAndTxInterfaces(tc *testContext, namespaceKey string) bool {
	namespaceKeyBytes := []byte(namespaceKey)
	err := walletdb.Update(tc.db, func(tx walletdb.ReadWriteTx) error {
		_, err := tx.CreateTopLevelBucket(namespaceKeyBytes)
		return err
	})
	if err != nil {
		tc.t.Errorf("CreateTopLevelBucket: unexpected error: %v", err)
		return false
	}
	tc.bucketKey = namespaceKeyBytes
	defer func() {
		// Remove the namespace now that the tests are done for it.
		err := walletdb.Update(tc.db, func(tx walletdb.ReadWriteTx) error {
			return tx.DeleteTopLevelBucket(namespaceKeyBytes)
		})
		if err != nil {
			tc.t.Errorf("DeleteTopLevelBucket: unexpected error: %v",
				err)
			return
		}
	}()

	if !testManualTxInterface(tc) {
		return false
	}

	// keyValues holds the keys and values to use when putting values
	// into a bucket.
	keyValues := map[string]string{
		"mtxkey1": "foo1",
		"mtxkey2": "foo2",
		"mtxkey3": "foo3",
	}

	// Test the bucket interface via a managed read-write transaction.
	err = walletdb.Update(tc.db, func(tx walletdb.ReadWriteTx) error {
		rootBucket := tx.ReadWriteBucket(namespaceKeyBytes)
		if rootBucket == nil {
			return fmt.Errorf("ReadWriteBucket: unexpected nil " +
				"root bucket")
		}

		if !testBucketInterface(tc, rootBucket, 0) {
			return errSubTestFail
		}

		if !testCursorInterface(tc, rootBucket) {
			return errSubTestFail
		}

		if !testPutValues(tc, rootBucket, keyValues) {
			return errSubTestFail
		}

		return nil
	})
	if err != nil {
		if err != errSubTestFail {
			tc.t.Errorf("Update: unexpected error: %v", err)
		}
		return false
	}

	// Test the bucket interface via a managed read-only transaction.
	err = walletdb.View(tc.db, func(tx walletdb.ReadTx) error {
		rootBucket := tx.ReadBucket(namespaceKeyBytes)
		if rootBucket == nil {
			return fmt.Errorf("ReadBucket: unexpected nil root " +
				"bucket")
		}

		if !testGetValues(tc, rootBucket, keyValues) {
			return errSubTestFail
		}

		return nil
	})
	if err != nil {
		if err != errSubTestFail {
			tc.t.Errorf("View: unexpected error: %v", err)
		}
		return false
	}

	// Ensure errors returned from the user-supplied Update function are
	// returned and the transaction is rolled back as a result.
	testKey := []byte("rollbackkey")
	testValue := []byte("rollbackvalue")
	forceRollbackError := fmt.Errorf("force rollback")
	err = walletdb.Update(tc.db, func(tx walletdb.ReadWriteTx) error {
		rootBucket := tx.ReadWriteBucket(namespaceKeyBytes)
		if rootBucket == nil {
			return fmt.Errorf("ReadWriteBucket: unexpected nil " +
				"root bucket")
		}

		if err := rootBucket.Put(testKey, testValue); err != nil {
			return fmt.Errorf("Put: unexpected error: %v", err)
		}

		return forceRollbackError
	})
	if err != forceRollbackError {
		if err == errSubTestFail {
			return false
		}

		tc.t.Errorf("Update: inner function error not returned - "+
			"got %v, want %v", err, forceRollbackError)
		return false
	}

	err = walletdb.View(tc.db, func(tx walletdb.ReadTx) error {
		rootBucket := tx.ReadBucket(namespaceKeyBytes)
		if rootBucket == nil {
			return fmt.Errorf("ReadBucket: unexpected nil root " +
				"bucket")
		}

		if rootBucket.Get(testKey) != nil {
			return fmt.Errorf("Get: key '%s' was not rolled back "+
				"when it should have been", testKey)
		}

		return nil
	})
	if err != nil {
		if err != errSubTestFail {
			tc.t.Errorf("View: unexpected error: %v", err)
		}
		return false
	}

	return true
}

// TestInterface performs all interfaces tests for this database driver.
func TestInterface(t Tester, dbType string, args ...interface{}) {
	db, err := walletdb.Create(dbType, args...)
	if err != nil {
		t.Errorf("Failed to create test database (%s) %v", dbType, err)
		return
	}
	defer db.Close()

	// Run all of the interface tests against the database.
	context := testContext{t: t, db: db}

	// Create a namespace and test the interface for it.
	if !testNamespaceAndTxInterfaces(&context, "ns1") {
		return
	}

	// Create a second namespace and test the interface for it.
	if !testNamespaceAndTxInterfaces(&context, "ns2") {
		return
	}
}
