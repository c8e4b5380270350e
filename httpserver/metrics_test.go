package httpserver_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/parkerroan/rlengine/engine"
	"github.com/parkerroan/rlengine/httpserver"
	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsCollector_ReportsEngineCounters(t *testing.T) {
	eng := engine.New(0)
	eng.CreateLimiter("k", 1, time.Hour, false, 0, 0, "")
	eng.TryRequest("k", "")
	eng.TryRequest("k", "")

	reg := prometheus.NewRegistry()
	collector := httpserver.NewMetricsCollector(eng, reg)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "rlengine_total_requests 2") {
		t.Errorf("expected total_requests to report 2, body:\n%s", body)
	}
	if !strings.Contains(body, "rlengine_allowed_requests 1") {
		t.Errorf("expected allowed_requests to report 1, body:\n%s", body)
	}
	if !strings.Contains(body, "rlengine_blocked_requests 1") {
		t.Errorf("expected blocked_requests to report 1, body:\n%s", body)
	}
}
