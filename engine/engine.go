package engine

import (
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/parkerroan/rlengine/clock"
)

// Engine is the concurrent rate-limiting table described by the package
// doc. The zero value is not usable; construct one with New.
type Engine struct {
	tbl         tablePtr
	resizing    atomic.Bool
	metrics     metrics
	ipFilter    ipFilter
	coordinator Coordinator
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithCoordinator attaches a Coordinator that entries created with a
// non-empty distributedKey will consult during refill and admission.
func WithCoordinator(c Coordinator) Option {
	return func(e *Engine) { e.coordinator = c }
}

// New constructs an Engine with the given starting bucket count. Counts
// below 1024 are rounded up to 1024, and any count is rounded up to the
// next power of two.
func New(bucketCount int, opts ...Option) *Engine {
	e := &Engine{}
	e.tbl.store(newTable(bucketCount))
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) table() *table { return e.tbl.load() }

func nowMillis() int64 { return clock.NowMillis() }

var (
	// ErrEmptyKey is returned by CreateLimiter when key is empty.
	ErrEmptyKey = errors.New("engine: key must not be empty")
	// ErrNegativeMaxTokens is returned by CreateLimiter when maxTokens < 0.
	ErrNegativeMaxTokens = errors.New("engine: maxTokens must not be negative")
	// ErrNonPositiveRefill is returned by CreateLimiter when refillTime <= 0.
	ErrNonPositiveRefill = errors.New("engine: refillTime must be positive")
	// ErrNegativeBlockDuration is returned by CreateLimiter when blockDuration < 0.
	ErrNegativeBlockDuration = errors.New("engine: blockDuration must not be negative")
	// ErrNegativeMaxPenalty is returned by CreateLimiter when maxPenaltyPoints < 0.
	ErrNegativeMaxPenalty = errors.New("engine: maxPenaltyPoints must not be negative")
)

// CreateLimiter creates (or replaces, by key) a rate budget. maxTokens is
// the bucket's capacity, refillTime is how often (fixed window) or over
// what unit (sliding window) it replenishes, and the remaining arguments
// configure blocking, penalties, and distributed coordination. No state is
// mutated if validation fails.
func (e *Engine) CreateLimiter(key string, maxTokens int64, refillTime time.Duration, useSlidingWindow bool, blockDuration time.Duration, maxPenaltyPoints int64, distributedKey string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if maxTokens < 0 {
		return ErrNegativeMaxTokens
	}
	if refillTime <= 0 {
		return ErrNonPositiveRefill
	}
	if blockDuration < 0 {
		return ErrNegativeBlockDuration
	}
	if maxPenaltyPoints < 0 {
		return ErrNegativeMaxPenalty
	}

	refillTimeMs := refillTime.Milliseconds()
	blockDurationMs := blockDuration.Milliseconds()
	now := nowMillis()

	for {
		t := e.table()
		if t.insert(key, maxTokens, refillTimeMs, useSlidingWindow, blockDurationMs, maxPenaltyPoints, distributedKey, now) {
			return nil
		}
		e.growTable(t)
	}
}

// growTable doubles the table, rehashing every valid entry into the new
// one, then publishes it. Only one goroutine performs the actual resize at
// a time; others that observe it in progress spin briefly and retry their
// own operation against whichever table is current when they wake.
func (e *Engine) growTable(observed *table) {
	if e.resizing.CompareAndSwap(false, true) {
		defer e.resizing.Store(false)
		if e.table() == observed {
			e.tbl.store(observed.grown())
		}
		return
	}
	for e.resizing.Load() {
		runtime.Gosched() // another goroutine is resizing; back off until it publishes.
	}
}

// RemoveLimiter invalidates key's entry, if any. The slot becomes
// reusable by a later CreateLimiter.
func (e *Engine) RemoveLimiter(key string) bool {
	e.table().invalidate(key)
	return true
}

// TryRequest is the admission path. ip may be empty to skip IP filtering.
func (e *Engine) TryRequest(key string, ip string) bool {
	e.metrics.totalRequests.Add(1)

	if ip != "" {
		if e.IsBlacklisted(ip) {
			e.metrics.blockedRequests.Add(1)
			return false
		}
		if e.IsWhitelisted(ip) {
			e.metrics.allowedRequests.Add(1)
			return true
		}
	}

	entry := e.table().findEntry(key)
	if entry == nil {
		e.metrics.blockedRequests.Add(1)
		return false
	}

	now := nowMillis()
	if isBlocked(entry, now) {
		e.metrics.blockedRequests.Add(1)
		return false
	}

	e.refill(entry, now)

	distributedAcquired := false
	if e.coordinator != nil && entry.distributedKey != "" {
		ok, err := e.coordinator.TryAcquire(entry.distributedKey, entry.dynamicMaxTokens.Load())
		if err == nil {
			if !ok {
				e.metrics.blockedRequests.Add(1)
				return false
			}
			distributedAcquired = true
		}
		// err != nil: fail open, enforce purely locally.
	}

	for {
		current := entry.tokens.Load()
		if current <= 0 {
			if distributedAcquired {
				_ = e.coordinator.Release(entry.distributedKey, 1)
			}
			if entry.blockDurationMs > 0 {
				entry.blockUntil.Store(now + entry.blockDurationMs)
			}
			e.metrics.blockedRequests.Add(1)
			return false
		}
		if entry.tokens.CompareAndSwap(current, current-1) {
			break
		}
	}

	e.metrics.allowedRequests.Add(1)
	if entry.penaltyPoints.Load() > 0 {
		e.metrics.penalizedRequests.Add(1)
	}
	return true
}

// GetTokens returns key's current token count, or -1 if key is unknown.
func (e *Engine) GetTokens(key string) int64 {
	entry := e.table().findEntry(key)
	if entry == nil {
		return -1
	}
	return entry.tokens.Load()
}

// GetCurrentLimit returns key's current dynamic ceiling, or -1 if key is
// unknown.
func (e *Engine) GetCurrentLimit(key string) int64 {
	entry := e.table().findEntry(key)
	if entry == nil {
		return -1
	}
	return entry.dynamicMaxTokens.Load()
}

// Info is the result of GetRateLimitInfo.
type Info struct {
	Limit      int64
	Remaining  int64
	Reset      int64
	Blocked    bool
	RetryAfter int64
}

// GetRateLimitInfo runs a refill and returns a snapshot suitable for
// setting rate-limit response headers. The zero Info is returned for an
// unknown key.
func (e *Engine) GetRateLimitInfo(key string) Info {
	entry := e.table().findEntry(key)
	if entry == nil {
		return Info{}
	}

	now := nowMillis()
	e.refill(entry, now)

	dynamicLimit := entry.calculateDynamicLimit()
	currentTokens := entry.tokens.Load()
	blockedUntil := entry.blockUntil.Load()
	blocked := blockedUntil > now

	var retryAfter int64
	if blocked {
		retryAfter = (blockedUntil - now) / 1000
		currentTokens = 0
	}
	if currentTokens < 0 {
		currentTokens = 0
	}

	lastRefill := entry.lastRefill.Load()

	return Info{
		Limit:      dynamicLimit,
		Remaining:  currentTokens,
		Reset:      lastRefill + entry.refillTimeMs,
		Blocked:    blocked,
		RetryAfter: retryAfter,
	}
}
