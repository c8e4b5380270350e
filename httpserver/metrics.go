package httpserver

import (
	"net/http"

	"github.com/parkerroan/rlengine/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector mirrors an engine's Stats as Prometheus gauges. The
// engine package itself stays free of any metrics library (see
// DESIGN.md); this is where that concern is wired in, one layer up.
type MetricsCollector struct {
	eng      *engine.Engine
	gatherer prometheus.Gatherer // nil: serve the default registry

	total     prometheus.Gauge
	allowed   prometheus.Gauge
	blocked   prometheus.Gauge
	penalized prometheus.Gauge
}

// NewMetricsCollector registers gauges for eng's counters against reg. If
// reg is nil, prometheus.DefaultRegisterer is used.
func NewMetricsCollector(eng *engine.Engine, reg prometheus.Registerer) *MetricsCollector {
	var gatherer prometheus.Gatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	factory := promauto.With(reg)

	return &MetricsCollector{
		eng:       eng,
		gatherer:  gatherer,
		total:     factory.NewGauge(prometheus.GaugeOpts{Name: "rlengine_total_requests", Help: "Total requests seen by the rate limiter."}),
		allowed:   factory.NewGauge(prometheus.GaugeOpts{Name: "rlengine_allowed_requests", Help: "Requests admitted by the rate limiter."}),
		blocked:   factory.NewGauge(prometheus.GaugeOpts{Name: "rlengine_blocked_requests", Help: "Requests rejected by the rate limiter."}),
		penalized: factory.NewGauge(prometheus.GaugeOpts{Name: "rlengine_penalized_requests", Help: "Admitted requests served under an active penalty."}),
	}
}

// Refresh pulls a fresh snapshot from the engine into the gauges. Callers
// typically wire this into the /metrics handler itself, see Handler.
func (m *MetricsCollector) Refresh() {
	stats := m.eng.GetStats()
	m.total.Set(float64(stats.TotalRequests))
	m.allowed.Set(float64(stats.AllowedRequests))
	m.blocked.Set(float64(stats.BlockedRequests))
	m.penalized.Set(float64(stats.PenalizedRequests))
}

// Handler returns an http.Handler serving Prometheus text exposition,
// refreshing the gauges from the engine on every scrape.
func (m *MetricsCollector) Handler() http.Handler {
	promHandler := promhttp.Handler()
	if m.gatherer != nil {
		promHandler = promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Refresh()
		promHandler.ServeHTTP(w, r)
	})
}
