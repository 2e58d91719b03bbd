// Package quota implements request admission control over a shared
// two-level quota.
//
// # Overview
//
// Every inbound request consumes exactly one unit from two token buckets:
// a per-subject bucket sized by the subject's tier, and a single global
// bucket shared by all subjects. The bucket state lives in a Store that is
// visible to every gateway instance, so the limits hold across replicas.
//
// # Components
//
//   - Take: the pure token bucket algorithm (refill + consume)
//   - Store: the shared state contract (atomic per-key read-modify-write)
//   - MemoryStore: in-process store for single-instance deployments and tests
//   - RedisStore: Redis-backed store executing the bucket as a Lua script
//   - Controller: the two-scope (user then global) check protocol
//
// # Consistency
//
// The read-compute-write sequence for one key is atomic with respect to
// concurrent checks on the same key. MemoryStore holds a mutex for the
// duration of the update; RedisStore runs the whole sequence as a single
// server-side script. A plain get-then-set would let two concurrent
// requests observe the same token count and both be admitted.
//
// # Example
//
//	store := quota.NewMemoryStore()
//	table := quota.NewTable(quota.DefaultLimits())
//	ctrl := quota.NewController(store, table, nil)
//
//	decision, err := ctrl.Check(ctx, "user-42", quota.TierFree)
//	if err != nil {
//	    // store unreachable; caller decides (the gateway fails open)
//	}
//	if !decision.Allowed {
//	    // reject with 429, Retry-After decision.RetryAfter
//	}
package quota
