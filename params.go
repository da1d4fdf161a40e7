// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import "github.com/fuegosuite/fuegowallet/netparams"

// activeNet is the current network the wallet runs on.  It is set from the
// command line and defaults to mainnet.
var activeNet = &netparams.MainNetParams
