package engine

// refill brings e's token count and dynamic ceiling up to date as of now.
// It is a CAS loop on lastRefill: the CAS is the single linearization
// point for one refill event, so every field written after a successful
// CAS is visible to any thread that later observes the new lastRefill via
// an acquire load. Losing the CAS race simply means another thread already
// performed the refill this caller was about to perform; the loop retries
// to pick up its result.
func (e *Engine) refill(entry *bucketEntry, now int64) {
	for {
		lastRefill := entry.lastRefill.Load()
		elapsed := now - lastRefill

		if !entry.isSlidingWindow && elapsed < entry.refillTimeMs {
			return
		}

		dynamicLimit := entry.calculateDynamicLimit()
		currentTokens := entry.tokens.Load()

		var newTokens int64
		var tokensToAdd int64
		if entry.isSlidingWindow {
			tokensToAdd = (dynamicLimit * elapsed) / entry.refillTimeMs
			newTokens = currentTokens + tokensToAdd
			if newTokens > dynamicLimit {
				newTokens = dynamicLimit
			}
		} else {
			newTokens = dynamicLimit
		}

		if !entry.lastRefill.CompareAndSwap(lastRefill, now) {
			continue
		}

		entry.dynamicMaxTokens.Store(dynamicLimit)
		entry.tokens.Store(newTokens)

		if e.coordinator != nil && entry.distributedKey != "" {
			if entry.isSlidingWindow {
				if tokensToAdd > 0 {
					_ = e.coordinator.Release(entry.distributedKey, tokensToAdd)
				}
			} else {
				_ = e.coordinator.Reset(entry.distributedKey, dynamicLimit)
			}
		}
		return
	}
}

// isBlocked reports whether entry is currently within a block window,
// clearing blockUntil lazily once it has expired.
func isBlocked(entry *bucketEntry, now int64) bool {
	blockedUntil := entry.blockUntil.Load()
	if blockedUntil == 0 {
		return false
	}
	if now >= blockedUntil {
		entry.blockUntil.Store(0)
		return false
	}
	return true
}
