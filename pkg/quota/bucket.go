package quota

import (
	"math"
	"time"
)

// Window is the refill window for every bucket. A bucket's capacity is
// both its maximum token count and the number of tokens added per window.
const Window = time.Minute

// Take runs the token bucket algorithm for one key and one unit of work.
//
// prev is the stored state for the key, or nil if none exists yet. The
// returned state is what the caller must persist when the result is
// allowed. On denial the returned state equals prev and MUST NOT be
// written back: a denied check does not advance the refill clock, so a
// subject hammering an empty bucket does not delay its own recovery.
//
// Tokens refill continuously at capacity/Window per second, capped at
// capacity. Result.Remaining is truncated, never rounded up, so a
// fractional token is not reported as available headroom.
func Take(prev *BucketState, capacity int64, now time.Time) (BucketState, Result) {
	if prev == nil {
		// First observed request for this key: start one below full.
		state := BucketState{
			Tokens:     float64(capacity - 1),
			LastRefill: now,
		}
		return state, Result{Allowed: true, Remaining: capacity - 1}
	}

	refillRate := float64(capacity) / Window.Seconds()
	elapsed := now.Sub(prev.LastRefill).Seconds()
	tokens := math.Min(float64(capacity), prev.Tokens+elapsed*refillRate)

	if tokens < 1 {
		return *prev, Result{Allowed: false, Remaining: 0}
	}

	tokens--
	state := BucketState{Tokens: tokens, LastRefill: now}
	return state, Result{Allowed: true, Remaining: int64(tokens)}
}
