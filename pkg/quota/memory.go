package quota

import (
	"context"
	"sync"
	"time"
)

// memoryEntry is a stored bucket plus its expiry deadline.
type memoryEntry struct {
	state   BucketState
	expires time.Time
}

// MemoryStore is an in-process Store.
//
// It is safe for concurrent use, but its state is local to the process
// and is not shared across replicas. Use RedisStore when a single limit
// must hold across multiple gateway instances.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*memoryEntry

	// now is the clock; swapped out by tests that assert refill math.
	now func() time.Time
}

// NewMemoryStore constructs a MemoryStore with empty state.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// Consume implements Store. The mutex is held for the whole
// read-modify-write so concurrent checks on the same key serialize.
func (m *MemoryStore) Consume(ctx context.Context, key string, capacity int64) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	var prev *BucketState
	if entry, ok := m.buckets[key]; ok {
		if now.Before(entry.expires) {
			prev = &entry.state
		} else {
			// Expired entries behave exactly like absent ones:
			// the next access restarts the window.
			delete(m.buckets, key)
		}
	}

	state, res := Take(prev, capacity, now)
	if res.Allowed {
		m.buckets[key] = &memoryEntry{
			state:   state,
			expires: now.Add(Window),
		}
	}

	return res, nil
}

// Sweep removes expired entries and returns how many were dropped.
// Expired entries are also dropped lazily on access; Sweep exists so
// idle keys do not accumulate between requests.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, entry := range m.buckets {
		if !now.Before(entry.expires) {
			delete(m.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

// Close implements Store. A MemoryStore holds no external resources.
func (m *MemoryStore) Close() error {
	return nil
}
