package engine

import "sync/atomic"

// cacheLineSize is used only to pad bucketEntry so the hot, frequently
// written fields of one entry don't share a cache line with the hot
// fields of its neighbor in the table's slot array.
const cacheLineSize = 64

// bucketEntry is one named rate budget. The first group of fields is
// mutated on every admission and kept together; the second group is set
// once at creation and never written again, so concurrent readers never
// need to synchronize on it beyond observing valid=true.
type bucketEntry struct {
	// Hot fields - read and CAS'd on every TryRequest/refill.
	tokens           atomic.Int64
	lastRefill       atomic.Int64
	blockUntil       atomic.Int64
	dynamicMaxTokens atomic.Int64
	penaltyPoints    atomic.Int64
	valid            atomic.Bool

	_ [cacheLineSize - 44]byte // pad hot fields out to one cache line

	// Cold fields - immutable for the life of the entry.
	key              string
	baseMaxTokens    int64
	refillTimeMs     int64
	blockDurationMs  int64
	maxPenaltyPoints int64
	isSlidingWindow  bool
	distributedKey   string
}

// newBucketEntry initializes a fresh, valid entry for key. It does not
// place the entry in a table; callers do that.
func newBucketEntry(key string, maxTokens, refillTimeMs int64, slidingWindow bool, blockDurationMs, maxPenaltyPoints int64, distributedKey string, now int64) *bucketEntry {
	e := &bucketEntry{
		key:              key,
		baseMaxTokens:    maxTokens,
		refillTimeMs:     refillTimeMs,
		blockDurationMs:  blockDurationMs,
		maxPenaltyPoints: maxPenaltyPoints,
		isSlidingWindow:  slidingWindow,
		distributedKey:   distributedKey,
	}
	e.tokens.Store(maxTokens)
	e.lastRefill.Store(now)
	e.dynamicMaxTokens.Store(maxTokens)
	e.valid.Store(true)
	return e
}

// resetInto overwrites the contents of a slot's entry with a fresh entry
// for key, without allocating a new bucketEntry. table.insert uses it both
// to reuse an invalid slot and to replace a live entry for the same key.
func (e *bucketEntry) resetInto(key string, maxTokens, refillTimeMs int64, slidingWindow bool, blockDurationMs, maxPenaltyPoints int64, distributedKey string, now int64) {
	e.key = key
	e.baseMaxTokens = maxTokens
	e.refillTimeMs = refillTimeMs
	e.blockDurationMs = blockDurationMs
	e.maxPenaltyPoints = maxPenaltyPoints
	e.isSlidingWindow = slidingWindow
	e.distributedKey = distributedKey

	e.tokens.Store(maxTokens)
	e.lastRefill.Store(now)
	e.blockUntil.Store(0)
	e.dynamicMaxTokens.Store(maxTokens)
	e.penaltyPoints.Store(0)
	e.valid.Store(true)
}

// calculateDynamicLimit is a pure function of the entry's current penalty
// points: it never touches tokens or lastRefill.
func (e *bucketEntry) calculateDynamicLimit() int64 {
	if e.maxPenaltyPoints <= 0 {
		return e.baseMaxTokens
	}

	points := e.penaltyPoints.Load()
	if points <= 0 {
		return e.baseMaxTokens
	}
	if points > e.maxPenaltyPoints {
		points = e.maxPenaltyPoints
	}

	reduction := (points * e.baseMaxTokens) / e.maxPenaltyPoints
	maxReduction := (e.baseMaxTokens * 9) / 10
	if reduction > maxReduction {
		reduction = maxReduction
	}

	newLimit := e.baseMaxTokens - reduction
	minLimit := (e.baseMaxTokens + 9) / 10
	if minLimit < 1 {
		minLimit = 1
	}
	if newLimit < minLimit {
		return minLimit
	}
	return newLimit
}
