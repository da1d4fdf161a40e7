// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// JitterTicker fires at randomized intervals around a base duration.  The
// simulated node drives its peer wobble with one so concurrent sessions do
// not observe peer set changes in lockstep.
//
// Each interval is drawn uniformly from [base*(1-spread), base*(1+spread)].
// A spread of 0 degenerates to a plain ticker.  Spreads above 1 clamp the
// lower bound at zero.
type JitterTicker struct {
	// C receives the ticks.  Ticks are dropped rather than queued when
	// the receiver lags.
	C <-chan time.Time

	c    chan time.Time
	base time.Duration
	lo   time.Duration
	hi   time.Duration

	stopOnce sync.Once
	quit     chan struct{}
}

// NewJitterTicker starts a ticker with the given base interval and spread.
// The spread must not be negative.
func NewJitterTicker(base time.Duration, spread float64) *JitterTicker {
	lo, hi := jitterBounds(base, spread)

	t := &JitterTicker{
		c:    make(chan time.Time, 1),
		base: base,
		lo:   lo,
		hi:   hi,
		quit: make(chan struct{}),
	}
	t.C = t.c

	go t.run()

	return t
}

// jitterBounds returns the interval bounds for a base duration and spread,
// clamping the lower bound at zero when the spread exceeds 1.
func jitterBounds(base time.Duration, spread float64) (time.Duration,
	time.Duration) {

	if spread < 0 {
		panic("chain: negative jitter spread")
	}

	lo := math.Floor(float64(base) * (1 - spread))
	hi := math.Ceil(float64(base) * (1 + spread))
	if lo < 0 {
		lo = 0
	}

	return time.Duration(lo), time.Duration(hi)
}

// Stop terminates the ticker.  It is idempotent and does not close C.
func (jt *JitterTicker) Stop() {
	jt.stopOnce.Do(func() {
		close(jt.quit)
	})
}

// run sends ticks until Stop is called.
func (jt *JitterTicker) run() {
	timer := time.NewTimer(jt.interval())
	defer timer.Stop()

	for {
		select {
		case now := <-timer.C:
			// Non-blocking send: a slow receiver misses ticks
			// instead of delaying the schedule.
			select {
			case jt.c <- now:
			default:
			}
			timer.Reset(jt.interval())

		case <-jt.quit:
			return
		}
	}
}

// interval draws the next wait duration from the jitter bounds.
func (jt *JitterTicker) interval() time.Duration {
	if jt.hi == jt.lo {
		return jt.base
	}
	return jt.lo + time.Duration(rand.Int63n(int64(jt.hi-jt.lo)))
}
