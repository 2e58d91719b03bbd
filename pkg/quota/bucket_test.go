package quota

import (
	"testing"
	"time"
)

func TestTake_FirstRequest(t *testing.T) {
	now := time.Unix(1700000000, 0)

	state, res := Take(nil, 10, now)

	if !res.Allowed {
		t.Fatal("expected first request to be allowed")
	}
	if res.Remaining != 9 {
		t.Errorf("expected remaining 9, got %d", res.Remaining)
	}
	if state.Tokens != 9 {
		t.Errorf("expected 9 tokens stored, got %f", state.Tokens)
	}
	if !state.LastRefill.Equal(now) {
		t.Errorf("expected lastRefill %v, got %v", now, state.LastRefill)
	}
}

func TestTake_DrainsToZeroThenDenies(t *testing.T) {
	now := time.Unix(1700000000, 0)

	state, res := Take(nil, 10, now)
	if !res.Allowed || res.Remaining != 9 {
		t.Fatalf("unexpected first result: %+v", res)
	}

	// Nine more immediate requests drain the bucket with remaining
	// counting down 8..0.
	for want := int64(8); want >= 0; want-- {
		state, res = Take(&state, 10, now)
		if !res.Allowed {
			t.Fatalf("expected request to be allowed at remaining %d", want)
		}
		if res.Remaining != want {
			t.Errorf("expected remaining %d, got %d", want, res.Remaining)
		}
	}

	// The eleventh immediate request is denied.
	after, res := Take(&state, 10, now)
	if res.Allowed {
		t.Fatal("expected request to be denied on empty bucket")
	}
	if res.Remaining != 0 {
		t.Errorf("expected remaining 0 on denial, got %d", res.Remaining)
	}
	if after != state {
		t.Errorf("denial must not change state: before %+v after %+v", state, after)
	}
}

func TestTake_DenialDoesNotAdvanceClock(t *testing.T) {
	t0 := time.Unix(1700000000, 0)

	state := BucketState{Tokens: 0, LastRefill: t0}

	// Half a token refilled: still denied, lastRefill untouched.
	after, res := Take(&state, 10, t0.Add(3*time.Second))
	if res.Allowed {
		t.Fatal("expected denial with only a fractional token")
	}
	if !after.LastRefill.Equal(t0) {
		t.Errorf("denial advanced lastRefill to %v", after.LastRefill)
	}
}

func TestTake_Refill(t *testing.T) {
	t0 := time.Unix(1700000000, 0)

	tests := []struct {
		name          string
		state         BucketState
		capacity      int64
		elapsed       time.Duration
		wantAllowed   bool
		wantRemaining int64
	}{
		{
			name:          "one token recovered",
			state:         BucketState{Tokens: 0, LastRefill: t0},
			capacity:      10,
			elapsed:       7 * time.Second, // > 60/10 seconds
			wantAllowed:   true,
			wantRemaining: 0,
		},
		{
			name:          "fraction below one token",
			state:         BucketState{Tokens: 0, LastRefill: t0},
			capacity:      10,
			elapsed:       5 * time.Second,
			wantAllowed:   false,
			wantRemaining: 0,
		},
		{
			name:          "fractional headroom truncates",
			state:         BucketState{Tokens: 0, LastRefill: t0},
			capacity:      10,
			elapsed:       15 * time.Second, // 2.5 tokens, 1.5 after consume
			wantAllowed:   true,
			wantRemaining: 1,
		},
		{
			name:          "refill capped at capacity",
			state:         BucketState{Tokens: 3, LastRefill: t0},
			capacity:      10,
			elapsed:       time.Hour,
			wantAllowed:   true,
			wantRemaining: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := Take(&tt.state, tt.capacity, t0.Add(tt.elapsed))
			if res.Allowed != tt.wantAllowed {
				t.Errorf("allowed = %v, want %v", res.Allowed, tt.wantAllowed)
			}
			if res.Remaining != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", res.Remaining, tt.wantRemaining)
			}
		})
	}
}

func TestTake_RecoveredTokensMatchElapsedTime(t *testing.T) {
	t0 := time.Unix(1700000000, 0)
	capacity := int64(10)

	// After w seconds an empty bucket holds w*C/60 tokens (before the
	// consume). 33 seconds at capacity 10 is 5.5 tokens.
	state := BucketState{Tokens: 0, LastRefill: t0}
	after, res := Take(&state, capacity, t0.Add(33*time.Second))
	if !res.Allowed {
		t.Fatal("expected request to be allowed")
	}
	if got, want := after.Tokens, 4.5; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("expected %.1f tokens after consume, got %f", want, got)
	}
	if res.Remaining != 4 {
		t.Errorf("expected remaining 4, got %d", res.Remaining)
	}
}
