package engine

import "sync/atomic"

const minBucketCount = 1024

// table is the open-addressed slot array. Every slot holds a *bucketEntry;
// an entry whose valid bit is false is treated as an empty slot by a
// lookup. table itself is immutable once constructed - resize builds a new
// table and swaps the engine's pointer to it, it never mutates slots in
// place.
type table struct {
	slots []*bucketEntry
	mask  uint64
}

func newTable(size int) *table {
	size = nextPowerOfTwo(size)
	slots := make([]*bucketEntry, size)
	for i := range slots {
		slots[i] = &bucketEntry{}
	}
	return &table{slots: slots, mask: uint64(size) - 1}
}

func nextPowerOfTwo(v int) int {
	if v < minBucketCount {
		v = minBucketCount
	}
	n := 1
	for n < v {
		n <<= 1
	}
	return n
}

// nextIdx advances idx to the next slot in the probe chain for hash h.
// probe is the 1-based number of the step about to be taken. Steps 1-8
// increment by one; step 9 onward jump by the odd stride derived from h's
// high bits, to spread out cluster hits.
func nextIdx(idx uint64, h uint32, probe uint64, mask uint64) uint64 {
	if probe <= 8 {
		return (idx + 1) & mask
	}
	jump := uint64((h >> 16) | 1)
	return (idx + jump) & mask
}

// findEntry returns the live entry for key, or nil if none exists. It
// stops at the first invalid slot on the probe chain, matching the
// lookup rule from the source: a removed slot can shadow a later entry
// sharing its probe chain (see engine/doc.go).
func (t *table) findEntry(key string) *bucketEntry {
	if key == "" {
		return nil
	}
	h := murmur3_32([]byte(key))
	idx := uint64(h) & t.mask
	n := uint64(len(t.slots))

	for probe := uint64(1); probe <= n; probe++ {
		e := t.slots[idx]
		if !e.valid.Load() {
			return nil
		}
		if e.key == key {
			return e
		}
		idx = nextIdx(idx, h, probe, t.mask)
	}
	return nil
}

// insert places a configured entry for key into the table, replacing any
// existing live entry for the same key wherever it is found on the chain,
// or reusing the first invalid slot seen along the way if no live match
// exists. Unlike findEntry, it scans the full chain (it does not stop at
// the first invalid slot) so it can find a live match further down the
// chain and so it can locate a reusable slot. It reports false if the
// whole chain was scanned, no live match and no invalid slot were found -
// the caller must grow the table and retry.
func (t *table) insert(key string, maxTokens, refillTimeMs int64, slidingWindow bool, blockDurationMs, maxPenaltyPoints int64, distributedKey string, now int64) bool {
	h := murmur3_32([]byte(key))
	idx := uint64(h) & t.mask
	n := uint64(len(t.slots))

	var firstInvalid *bucketEntry
	for probe := uint64(1); probe <= n; probe++ {
		e := t.slots[idx]
		if !e.valid.Load() {
			if firstInvalid == nil {
				firstInvalid = e
			}
		} else if e.key == key {
			e.resetInto(key, maxTokens, refillTimeMs, slidingWindow, blockDurationMs, maxPenaltyPoints, distributedKey, now)
			return true
		}
		idx = nextIdx(idx, h, probe, t.mask)
	}

	if firstInvalid != nil {
		firstInvalid.resetInto(key, maxTokens, refillTimeMs, slidingWindow, blockDurationMs, maxPenaltyPoints, distributedKey, now)
		return true
	}
	return false
}

// invalidate marks the live entry for key as invalid, returning true if an
// entry was found and invalidated.
func (t *table) invalidate(key string) bool {
	e := t.findEntry(key)
	if e == nil {
		return false
	}
	return e.valid.CompareAndSwap(true, false)
}

// grown returns a new table of double the size with every valid entry
// from t rehashed into it. It does not mutate t.
func (t *table) grown() *table {
	nt := newTable(len(t.slots) * 2)
	for _, e := range t.slots {
		if !e.valid.Load() {
			continue
		}
		h := murmur3_32([]byte(e.key))
		idx := uint64(h) & nt.mask
		for probe := uint64(1); nt.slots[idx].valid.Load(); probe++ {
			idx = nextIdx(idx, h, probe, nt.mask)
		}
		nt.slots[idx] = e
	}
	return nt
}

// tablePtr wraps an atomic.Pointer[table] so the resize guard (a CAS on a
// bool elsewhere in engine.go) and the pointer swap read naturally
// side by side with the rest of the engine's state.
type tablePtr struct {
	p atomic.Pointer[table]
}

func (tp *tablePtr) load() *table   { return tp.p.Load() }
func (tp *tablePtr) store(t *table) { tp.p.Store(t) }
