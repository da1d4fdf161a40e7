/*
 * Copyright (c) 2014 Conformal Systems LLC <info@conformal.com>
 *
 * Permission to use, copy, modify, and distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

/*
Package bdb implements an instance of walletdb that uses bbolt for the backing
datastore.

Usage

This package is only a driver to the walletdb package and provides the database
type of "bdb".  The Open and Create functions take the database path as a
string, a boolean controlling whether freelist pages are synced to disk, and a
timeout for obtaining the file lock:

	db, err := walletdb.Open("bdb", "path/to/database.db", true, 60*time.Second)
	if err != nil {
		// Handle error
	}

	db, err := walletdb.Create("bdb", "path/to/database.db", true, 60*time.Second)
	if err != nil {
		// Handle error
	}
*/
package bdb
