package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RetryAfter is the coarse retry hint returned on every denial. It is
// deliberately not computed from actual refill progress.
const RetryAfter = 60 * time.Second

const (
	keyPrefix = "ratelimit"
	globalKey = keyPrefix + ":global"
)

// Controller runs the two-scope admission check for a resolved subject.
//
// The per-subject bucket is checked first. Only when it admits the
// request is the global bucket touched, so a blocked subject never
// consumes shared capacity. A request denied at global scope keeps the
// subject-scope token it already consumed; there is no rollback.
type Controller struct {
	store   Store
	table   *Table
	metrics *Metrics
	logger  *slog.Logger
}

// NewController creates a Controller. metrics may be nil.
func NewController(store Store, table *Table, metrics *Metrics) *Controller {
	return &Controller{
		store:   store,
		table:   table,
		metrics: metrics,
		logger:  slog.Default().With("component", "quota.controller"),
	}
}

// UserKey returns the bucket key for a subject.
func UserKey(subject string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, subject)
}

// Check consumes one unit for subject at the given tier. The returned
// error is non-nil only when the store could not complete an operation;
// the decision is then meaningless and the caller chooses a policy
// (the gateway fails open).
func (c *Controller) Check(ctx context.Context, subject string, tier Tier) (Decision, error) {
	start := time.Now()

	capacity := c.table.Capacity(tier)
	if !c.table.Known(tier) {
		c.logger.Warn("unrecognized tier, using free capacity",
			"tier", string(tier),
			"subject", subject,
		)
	}

	user, err := c.store.Consume(ctx, UserKey(subject), capacity)
	if err != nil {
		return Decision{}, fmt.Errorf("user bucket for %s: %w", subject, err)
	}

	if !user.Allowed {
		decision := Decision{
			Allowed:    false,
			Scope:      ScopeUser,
			Limit:      capacity,
			Remaining:  0,
			RetryAfter: RetryAfter,
		}
		c.metrics.RecordCheck(decision, time.Since(start))
		return decision, nil
	}

	global, err := c.store.Consume(ctx, globalKey, c.table.Global())
	if err != nil {
		return Decision{}, fmt.Errorf("global bucket: %w", err)
	}

	if !global.Allowed {
		// The subject-scope token consumed above is not refunded.
		decision := Decision{
			Allowed:    false,
			Scope:      ScopeGlobal,
			Limit:      c.table.Global(),
			Remaining:  0,
			RetryAfter: RetryAfter,
		}
		c.metrics.RecordCheck(decision, time.Since(start))
		return decision, nil
	}

	decision := Decision{
		Allowed:   true,
		Limit:     capacity,
		Remaining: user.Remaining,
	}
	c.metrics.RecordCheck(decision, time.Since(start))
	return decision, nil
}
