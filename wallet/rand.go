// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"math/rand"
	"sync"
	"time"
)

// prng drives the simulated policies: sync step jitter and mining share
// outcomes.  It is guarded by its own mutex since both background loops
// draw from it.
var (
	prngMu sync.Mutex
	prng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// randUint64n returns a random value in [0, n).
func randUint64n(n uint64) uint64 {
	prngMu.Lock()
	defer prngMu.Unlock()
	return uint64(prng.Int63n(int64(n)))
}

// randFloat64 returns a random value in [0, 1).
func randFloat64() float64 {
	prngMu.Lock()
	defer prngMu.Unlock()
	return prng.Float64()
}
