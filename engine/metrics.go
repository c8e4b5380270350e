package engine

import "sync/atomic"

// metrics holds the engine's four running counters. Relaxed ordering is
// enough: callers observing GetStats mid-flight may see
// allowed+blocked lag total momentarily, but they converge, and no
// counter feeds back into an admission decision.
type metrics struct {
	totalRequests     atomic.Uint64
	allowedRequests   atomic.Uint64
	blockedRequests   atomic.Uint64
	penalizedRequests atomic.Uint64
}

// Stats is a point-in-time snapshot returned by Engine.GetStats.
type Stats struct {
	TotalRequests     uint64
	AllowedRequests   uint64
	BlockedRequests   uint64
	PenalizedRequests uint64
	AllowRate         float64
	BlockRate         float64
	PenaltyRate       float64
}

// GetStats returns the current counters plus their ratios to
// TotalRequests (0 when TotalRequests is 0).
func (e *Engine) GetStats() Stats {
	total := e.metrics.totalRequests.Load()
	allowed := e.metrics.allowedRequests.Load()
	blocked := e.metrics.blockedRequests.Load()
	penalized := e.metrics.penalizedRequests.Load()

	s := Stats{
		TotalRequests:     total,
		AllowedRequests:   allowed,
		BlockedRequests:   blocked,
		PenalizedRequests: penalized,
	}
	if total > 0 {
		s.AllowRate = float64(allowed) / float64(total)
		s.BlockRate = float64(blocked) / float64(total)
		s.PenaltyRate = float64(penalized) / float64(total)
	}
	return s
}

// ResetStats zeroes all four counters. Each Store is independent, so a
// concurrent reader can observe a state where some counters are already
// zero and others are not yet.
func (e *Engine) ResetStats() bool {
	e.metrics.totalRequests.Store(0)
	e.metrics.allowedRequests.Store(0)
	e.metrics.blockedRequests.Store(0)
	e.metrics.penalizedRequests.Store(0)
	return true
}
