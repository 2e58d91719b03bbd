package quota

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fixedClock returns a settable clock function for deterministic tests.
func fixedClock(start time.Time) (func() time.Time, func(time.Time)) {
	var mu sync.Mutex
	now := start
	return func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}, func(t time.Time) {
			mu.Lock()
			now = t
			mu.Unlock()
		}
}

func TestMemoryStore_DrainAndDeny(t *testing.T) {
	t0 := time.Unix(1700000000, 0)
	store := NewMemoryStore()
	clock, _ := fixedClock(t0)
	store.now = clock

	ctx := context.Background()

	for want := int64(9); want >= 0; want-- {
		res, err := store.Consume(ctx, "ratelimit:user:u1", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("expected request allowed at remaining %d", want)
		}
		if res.Remaining != want {
			t.Errorf("expected remaining %d, got %d", want, res.Remaining)
		}
	}

	res, err := store.Consume(ctx, "ratelimit:user:u1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Allowed {
		t.Error("expected eleventh request to be denied")
	}
	if res.Remaining != 0 {
		t.Errorf("expected remaining 0, got %d", res.Remaining)
	}
}

func TestMemoryStore_ExpiryResetsWindow(t *testing.T) {
	t0 := time.Unix(1700000000, 0)
	store := NewMemoryStore()
	clock, setClock := fixedClock(t0)
	store.now = clock

	ctx := context.Background()

	// Drain the bucket.
	for i := 0; i < 10; i++ {
		if _, err := store.Consume(ctx, "k", 10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// After the window passes untouched, the entry expires and the next
	// access starts a fresh bucket.
	setClock(t0.Add(Window + time.Second))

	res, err := store.Consume(ctx, "k", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Allowed || res.Remaining != 9 {
		t.Errorf("expected fresh bucket (allowed, remaining 9), got %+v", res)
	}
}

func TestMemoryStore_DenialDoesNotDelayRecovery(t *testing.T) {
	t0 := time.Unix(1700000000, 0)
	store := NewMemoryStore()
	clock, setClock := fixedClock(t0)
	store.now = clock

	ctx := context.Background()

	// Capacity 2: drain at t0.
	store.Consume(ctx, "k", 2)
	store.Consume(ctx, "k", 2)

	// Deny close to the recovery point. If this advanced the refill
	// clock, the check two seconds later would also be denied.
	setClock(t0.Add(29 * time.Second))
	res, _ := store.Consume(ctx, "k", 2)
	if res.Allowed {
		t.Fatal("expected denial before a full token recovered")
	}

	setClock(t0.Add(31 * time.Second))
	res, _ = store.Consume(ctx, "k", 2)
	if !res.Allowed {
		t.Error("expected recovery after one token of refill time")
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	t0 := time.Unix(1700000000, 0)
	store := NewMemoryStore()
	clock, setClock := fixedClock(t0)
	store.now = clock

	ctx := context.Background()

	store.Consume(ctx, "a", 10)
	store.Consume(ctx, "b", 10)

	if store.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", store.Len())
	}

	setClock(t0.Add(30 * time.Second))
	store.Consume(ctx, "c", 10)

	// a and b are past their deadline once the window elapses from t0.
	setClock(t0.Add(Window + time.Second))
	removed := store.Sweep()

	if removed != 2 {
		t.Errorf("expected 2 entries swept, got %d", removed)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 entry left, got %d", store.Len())
	}
}

func TestMemoryStore_ConcurrentConsumeHoldsCapacity(t *testing.T) {
	t0 := time.Unix(1700000000, 0)
	store := NewMemoryStore()
	clock, _ := fixedClock(t0)
	store.now = clock

	const workers = 100
	const capacity = 40

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := store.Consume(context.Background(), "shared", capacity)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if res.Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	// With a frozen clock there is no refill: exactly capacity requests
	// may be admitted, never more.
	if admitted != capacity {
		t.Errorf("expected exactly %d admitted, got %d", capacity, admitted)
	}
}

func TestMemoryStore_ContextCancelled(t *testing.T) {
	store := NewMemoryStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Consume(ctx, "k", 10); err == nil {
		t.Error("expected error for cancelled context")
	}
}
