package quota

import "sync"

// Tier is a subject's service tier. The tier selects the per-subject
// bucket capacity.
type Tier string

const (
	// TierFree is the default tier for new accounts.
	TierFree Tier = "free"

	// TierPro is the paid individual tier.
	TierPro Tier = "pro"

	// TierEnterprise is the contract tier.
	TierEnterprise Tier = "enterprise"
)

// Limits maps tiers to per-window request capacities, plus the single
// global capacity shared by all subjects.
type Limits struct {
	// Tiers holds requests-per-window for each tier.
	Tiers map[Tier]int64

	// Global is the shared capacity across all subjects, independent
	// of tier.
	Global int64
}

// DefaultLimits returns the standard capacity table.
func DefaultLimits() Limits {
	return Limits{
		Tiers: map[Tier]int64{
			TierFree:       10,
			TierPro:        100,
			TierEnterprise: 1000,
		},
		Global: 10000,
	}
}

// Table is a concurrency-safe view of the limit table. The table is
// read on every admission check and may be replaced at runtime when the
// configuration file changes, so reads take a shared lock.
type Table struct {
	mu     sync.RWMutex
	limits Limits
}

// NewTable creates a Table from the given limits. Zero or missing
// values fall back to DefaultLimits.
func NewTable(limits Limits) *Table {
	defaults := DefaultLimits()
	if limits.Tiers == nil {
		limits.Tiers = defaults.Tiers
	}
	if limits.Global <= 0 {
		limits.Global = defaults.Global
	}
	return &Table{limits: limits}
}

// Capacity returns the per-subject capacity for tier. An unrecognized
// tier falls back to the free capacity.
func (t *Table) Capacity(tier Tier) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if cap, ok := t.limits.Tiers[tier]; ok && cap > 0 {
		return cap
	}
	return t.limits.Tiers[TierFree]
}

// Known reports whether tier has an explicit entry in the table.
func (t *Table) Known(tier Tier) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.limits.Tiers[tier]
	return ok
}

// Global returns the shared capacity across all subjects.
func (t *Table) Global() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.limits.Global
}

// Replace swaps in a new limit table. In-flight checks finish against
// the table they read; subsequent checks see the new capacities.
func (t *Table) Replace(limits Limits) {
	defaults := DefaultLimits()
	if limits.Tiers == nil {
		limits.Tiers = defaults.Tiers
	}
	if limits.Global <= 0 {
		limits.Global = defaults.Global
	}

	t.mu.Lock()
	t.limits = limits
	t.mu.Unlock()
}
