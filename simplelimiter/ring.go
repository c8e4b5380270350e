package simplelimiter

import (
	"container/ring"
	"sync"
	"time"
)

// RingLimiter is an implementation of the Limiter interface using a ring buffer.
// This is more performant than the HeapLimiter as it doesn't need to sort the requests by value and
// it uses a fixed size array.
type RingLimiter struct {
	ring   *ring.Ring
	size   int
	len    int
	window time.Duration
	mutex  sync.Mutex
}

// NewRingLimiterConstructorFunc returns a NewLimiterFunc that creates RingLimiters.
func NewRingLimiterConstructorFunc() NewLimiterFunc {
	return func(size int, window time.Duration) Limiter {
		return NewRingLimiter(size, window)
	}
}

// NewRingLimiter creates a RingLimiter.
func NewRingLimiter(size int, window time.Duration) *RingLimiter {
	r := ring.New(size)
	return &RingLimiter{
		size:   size,
		ring:   r,
		window: window,
	}
}

// Accept adds a new request to the ring buffer.
func (rl *RingLimiter) Accept(now time.Time) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.accept(now)
}

// Try reports whether a request at now would be within the rate limit,
// without recording it.
func (rl *RingLimiter) Try(now time.Time) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	return rl.try(now)
}

// TryAccept checks if it's within the rate limits and adds a new request to the ring buffer.
func (rl *RingLimiter) TryAccept(now time.Time) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if allowed := rl.try(now); allowed {
		rl.accept(now)
		return true
	}

	return false
}

// LimitDetails returns the size and window of the limiter.
func (rl *RingLimiter) LimitDetails() (int, time.Duration) {
	return rl.size, rl.window
}

func (rl *RingLimiter) try(now time.Time) bool {
	oldestAllowedTime := now.Add(-rl.window)

	if rl.ring.Value == nil || rl.ring.Value.(time.Time).Before(oldestAllowedTime) {
		return true
	}

	return false
}

func (rl *RingLimiter) accept(now time.Time) {
	rl.ring.Value = now
	rl.ring = rl.ring.Next()

	if rl.len < rl.size {
		rl.len++
	}
}

// TryAcceptWithInfo checks if it's within the rate limits, adds a new request to the ring buffer, and
// returns a boolean indicating whether the request was within the limits along with the rate limit info.
func (rl *RingLimiter) TryAcceptWithInfo(now time.Time) (bool, RateLimitInfo) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	info := rl.getRateLimitInfo(now)

	if info.Remaining > 0 {
		rl.accept(now)
		info.Remaining--
		return true, info
	}

	return false, info
}

func (rl *RingLimiter) calculateRemaining(oldestAllowedTime time.Time) int {
	invalidCount := 0

	for p := rl.ring; p.Value == nil || p.Value.(time.Time).Before(oldestAllowedTime); p = p.Next() {
		invalidCount++
		if p.Next() == rl.ring {
			break
		}
	}

	return invalidCount
}

func (rl *RingLimiter) getRateLimitInfo(now time.Time) RateLimitInfo {
	oldestAllowedTime := now.Add(-rl.window)

	info := RateLimitInfo{
		Limit: rl.size,
	}

	if oldestRequest, ok := rl.ring.Value.(time.Time); ok && oldestRequest.After(oldestAllowedTime) {
		info.Remaining = 0
		info.Reset = oldestRequest.Add(rl.window).Sub(now)
	} else {
		info.Remaining = rl.calculateRemaining(oldestAllowedTime)
		info.Reset = 0
	}

	return info
}
