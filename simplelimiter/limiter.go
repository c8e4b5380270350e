// Package simplelimiter collects the mutex-based, non-lock-free limiter
// implementations this module carries alongside engine.Engine: a ring
// buffer, a min-heap, and a golang.org/x/time/rate wrapper. None of these
// is the high-throughput engine this module is built around - they are
// simpler, lower-throughput alternatives for callers that would rather
// trade the engine's lock-free table for a smaller, easier-to-reason-about
// implementation. httpserver can be pointed at either.
package simplelimiter

import "time"

// Limiter is the interface that abstracts the limitations functionality.
type Limiter interface {
	TryAccept(time.Time) bool
}

// NewLimiterFunc constructs a Limiter of a given size and window. Each
// backend in this package exposes one via its own
// New<Backend>ConstructorFunc, so callers can select a backend without
// depending on its concrete type.
type NewLimiterFunc func(size int, window time.Duration) Limiter

// RateLimitInfo carries a limiter's size, its remaining capacity, and the
// time until more capacity is available. It covers three of engine.Info's
// five fields, with different types (int and time.Duration instead of
// int64 milliseconds), and has no Blocked or RetryAfter.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	Reset     time.Duration
}
