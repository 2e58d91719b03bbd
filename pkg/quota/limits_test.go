package quota

import "testing"

func TestTable_Capacity(t *testing.T) {
	table := NewTable(DefaultLimits())

	tests := []struct {
		tier Tier
		want int64
	}{
		{TierFree, 10},
		{TierPro, 100},
		{TierEnterprise, 1000},
		{Tier("unknown"), 10}, // fallback to free
		{Tier(""), 10},
	}

	for _, tt := range tests {
		if got := table.Capacity(tt.tier); got != tt.want {
			t.Errorf("Capacity(%q) = %d, want %d", tt.tier, got, tt.want)
		}
	}

	if table.Global() != 10000 {
		t.Errorf("Global() = %d, want 10000", table.Global())
	}
}

func TestTable_Replace(t *testing.T) {
	table := NewTable(DefaultLimits())

	table.Replace(Limits{
		Tiers:  map[Tier]int64{TierFree: 20, TierPro: 200},
		Global: 5000,
	})

	if got := table.Capacity(TierFree); got != 20 {
		t.Errorf("Capacity(free) = %d after replace, want 20", got)
	}
	if got := table.Capacity(TierEnterprise); got != 20 {
		t.Errorf("Capacity(enterprise) = %d after replace, want free fallback 20", got)
	}
	if got := table.Global(); got != 5000 {
		t.Errorf("Global() = %d after replace, want 5000", got)
	}
}

func TestNewTable_ZeroValuesUseDefaults(t *testing.T) {
	table := NewTable(Limits{})

	if got := table.Capacity(TierPro); got != 100 {
		t.Errorf("Capacity(pro) = %d, want default 100", got)
	}
	if got := table.Global(); got != 10000 {
		t.Errorf("Global() = %d, want default 10000", got)
	}
}
