// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package walletdb provides a namespaced database interface for the wallet.

Overview

A wallet essentially consists of a multitude of stored data such as private
and public keys, key derivation bits, sync state, and various accounting
entries.  This package provides a database interface where all of the
required data can be stored under distinct top level buckets so each
subsystem has its own area to work in without worrying about conflicting
keys.

A quick overview of the features database provides are as follows:

  - Key/value store
  - Bucket support
    - Buckets can contain other buckets which allows for a hierarchical
      data structure
  - Support for registration of backend databases
  - Atomic transactions with both manual and managed modes
  - Supports iteration of data within each bucket including cursors

The default backend, bdb, is driven by bbolt, however the interface makes
it possible to back the wallet with any storage capable of providing the
required semantics.
*/
package walletdb
