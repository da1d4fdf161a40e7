// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package migration provides a versioned upgrade path for the buckets a
// database namespace owner maintains.
package migration

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fuegosuite/fuegowallet/walletdb"
)

// ErrReversion is returned when an attempt to revert to a previous version
// is detected.  Running an older binary against a namespace written by a
// newer one is not supported.
var ErrReversion = errors.New("reverting to a previous version is not " +
	"supported")

// Migration is a function which takes a prior outdated version of a
// namespace's buckets and transforms it to the latest version.
type Migration func(walletdb.ReadWriteBucket) error

// Version denotes the version number of the namespace's schema.  A
// migration can be used to bring a prior version of the schema to a later
// one.
type Version struct {
	// Number is the version number of this version.
	Number uint32

	// Migration brings a prior version of the schema to this version.
	Migration Migration
}

// Manager is an interface that exposes the necessary methods needed in
// order to migrate and retrieve the version of a namespace's buckets.
type Manager interface {
	// Name returns the name of the service owning the namespace.  It is
	// used for descriptive upgrade errors.
	Name() string

	// Namespace returns the top level bucket of the service.
	Namespace() walletdb.ReadWriteBucket

	// CurrentVersion returns the current version of the service's
	// buckets.
	CurrentVersion(ns walletdb.ReadBucket) (uint32, error)

	// SetVersion sets the version of the service's buckets.
	SetVersion(ns walletdb.ReadWriteBucket, version uint32) error

	// Versions returns all of the available versions of the service.
	Versions() []Version
}

// GetLatestVersion returns the latest version available from the given
// slice.
func GetLatestVersion(versions []Version) uint32 {
	if len(versions) == 0 {
		return 0
	}

	// Before determining the latest version number, we'll sort the slice
	// to ensure it reflects the last element.
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Number < versions[j].Number
	})

	return versions[len(versions)-1].Number
}

// VersionsToApply determines which versions need to be applied in order to
// bring the buckets up to date with the latest version given their current
// one.
func VersionsToApply(currentVersion uint32, versions []Version) []Version {
	var versionsToApply []Version
	for _, version := range versions {
		if version.Number > currentVersion {
			versionsToApply = append(versionsToApply, version)
		}
	}

	// To ensure the migrations are applied in an increasing order, we'll
	// sort the slice of versions.
	sort.Slice(versionsToApply, func(i, j int) bool {
		return versionsToApply[i].Number < versionsToApply[j].Number
	})

	return versionsToApply
}

// Upgrade attempts to upgrade a group of buckets to their latest version.
// The caller is expected to hold an open read-write transaction spanning
// each manager's Namespace.
func Upgrade(mgrs ...Manager) error {
	for _, mgr := range mgrs {
		if err := upgrade(mgr); err != nil {
			return err
		}
	}

	return nil
}

// upgrade attempts to upgrade the buckets of the given manager to their
// latest version, applying all newer intermediate versions in order.
func upgrade(mgr Manager) error {
	ns := mgr.Namespace()
	currentVersion, err := mgr.CurrentVersion(ns)
	if err != nil {
		return fmt.Errorf("unable to get current version: %v", err)
	}
	latestVersion := GetLatestVersion(mgr.Versions())

	switch {
	// The current version is ahead of the latest known one, so the
	// manager is running against a namespace written by a newer binary.
	case currentVersion > latestVersion:
		return ErrReversion

	// The current version is behind, so apply all of the newer versions
	// in order to catch up to the latest.
	case currentVersion < latestVersion:
		versions := VersionsToApply(currentVersion, mgr.Versions())
		mgrName := mgr.Name()

		for _, version := range versions {
			// Not every version bump ships with a data
			// migration.
			if version.Migration == nil {
				continue
			}

			if err := version.Migration(ns); err != nil {
				return fmt.Errorf("unable to apply %v "+
					"migration #%d: %v", mgrName,
					version.Number, err)
			}
		}

		// With all of the versions applied, we can now reflect the
		// latest version upon the namespace.
		if err := mgr.SetVersion(ns, latestVersion); err != nil {
			return fmt.Errorf("unable to set latest version: %v",
				err)
		}

	// The current version matches the latest one, so there's nothing
	// left to do.
	case currentVersion == latestVersion:
	}

	return nil
}
