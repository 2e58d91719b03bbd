package quota

import (
	"context"
	"time"
)

// Scope identifies which quota dimension a check applied to.
type Scope string

const (
	// ScopeUser is the per-subject quota dimension.
	ScopeUser Scope = "user"

	// ScopeGlobal is the quota dimension shared across all subjects.
	ScopeGlobal Scope = "global"
)

// BucketState is the persisted refill state for a single bucket key.
// The Store owns these records; they are created lazily on the first
// observed request for a key and expire after one window of inactivity.
type BucketState struct {
	// Tokens is the current token count. Always within [0, capacity]
	// after a completed operation.
	Tokens float64

	// LastRefill is when Tokens was last advanced.
	LastRefill time.Time
}

// Result is the outcome of consuming one unit from a single bucket.
type Result struct {
	// Allowed reports whether a token was available and consumed.
	Allowed bool

	// Remaining is the whole number of tokens left after consumption,
	// truncated toward zero. Zero when denied.
	Remaining int64
}

// Decision is the outcome of a full two-scope admission check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Scope is the dimension that denied the request. Empty when allowed.
	Scope Scope

	// Limit is the capacity of the bucket the reported values refer to.
	Limit int64

	// Remaining is the per-subject headroom observed at check time.
	Remaining int64

	// RetryAfter suggests how long to wait before retrying. Set only
	// on denials.
	RetryAfter time.Duration
}

// Store is the shared quota state visible to all gateway instances.
//
// Implementations must make Consume atomic with respect to concurrent
// calls for the same key: either by holding a per-store or per-key lock
// for the duration of the read-modify-write, or by executing the whole
// sequence inside the store itself.
type Store interface {
	// Consume runs the token bucket against key with the given capacity
	// and consumes one unit if available. State for the key is created
	// on first use and expires after a window of inactivity, refreshed
	// on every successful write. A denial never mutates stored state.
	Consume(ctx context.Context, key string, capacity int64) (Result, error)

	// Close releases resources held by the store.
	Close() error
}
