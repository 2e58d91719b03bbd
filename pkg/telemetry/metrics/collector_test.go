package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/janus/pkg/quota"
)

func TestCollectorServesAdmissionMetrics(t *testing.T) {
	collector := NewCollector()
	m := quota.NewMetrics(collector.Registerer())

	m.RecordCheck(quota.Decision{Allowed: true, Limit: 10, Remaining: 9}, time.Millisecond)
	m.RecordCheck(quota.Decision{Allowed: false, Scope: quota.ScopeUser, Limit: 10}, time.Millisecond)
	m.RecordFailOpen()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, metric := range []string{
		"janus_admission_checks_total",
		"janus_admission_denials_total",
		"janus_admission_fail_open_total",
		"go_goroutines",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("exposition missing %s", metric)
		}
	}
}

func TestSeparateCollectorsDoNotCollide(t *testing.T) {
	// Two instances each register the same metric names on their own
	// registry; with the global registry this would panic.
	a := NewCollector()
	b := NewCollector()
	quota.NewMetrics(a.Registerer())
	quota.NewMetrics(b.Registerer())
}
