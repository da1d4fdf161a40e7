// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wstore

import (
	"github.com/fuegosuite/fuegowallet/walletdb"
	"github.com/fuegosuite/fuegowallet/walletdb/migration"
)

// versions includes all of the known versions of the store's schema, along
// with the migrations that carry an older store forward.  The initial
// version has no migration.
var versions = []migration.Version{
	{
		Number:    1,
		Migration: nil,
	},
}

// latestVersion is the most recent store schema version.
var latestVersion = migration.GetLatestVersion(versions)

// migrationManager implements migration.Manager for the store's namespace
// bucket.
type migrationManager struct {
	ns walletdb.ReadWriteBucket
}

var _ migration.Manager = (*migrationManager)(nil)

func (m *migrationManager) Name() string {
	return "wstore"
}

func (m *migrationManager) Namespace() walletdb.ReadWriteBucket {
	return m.ns
}

func (m *migrationManager) CurrentVersion(ns walletdb.ReadBucket) (uint32, error) {
	if ns == nil {
		ns = m.ns
	}
	return fetchVersion(ns)
}

func (m *migrationManager) SetVersion(ns walletdb.ReadWriteBucket, version uint32) error {
	if ns == nil {
		ns = m.ns
	}
	return putVersion(ns, version)
}

func (m *migrationManager) Versions() []migration.Version {
	return versions
}

// upgradeStore applies any data migrations needed to bring the store's
// schema up to date.  Stores written by a newer binary are rejected.
func upgradeStore(db walletdb.DB) error {
	err := walletdb.Update(db, func(tx walletdb.ReadWriteTx) error {
		ns := tx.ReadWriteBucket(storeBucketName)
		if ns == nil {
			return storeError(ErrNoExist, "wallet store does not "+
				"exist", nil)
		}
		return migration.Upgrade(&migrationManager{ns: ns})
	})
	if err == migration.ErrReversion {
		return storeError(ErrData, "store was written by a newer "+
			"version of the software", err)
	}
	return err
}
