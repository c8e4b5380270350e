// Package engine implements a high-throughput, in-process token-bucket rate
// limiter.
//
// The primary entry point is Engine:
//
//	e := engine.New(16384)
//	e.CreateLimiter("api", 5, time.Second, false, 0, 0, "")
//	if e.TryRequest("api", "") {
//		// admit the request
//	}
//
// # Overview
//
// Engine keeps one bucketEntry per key in an open-addressed hash table.
// Every field that changes on the hot path (tokens, lastRefill, blockUntil,
// dynamicMaxTokens, penaltyPoints) is a plain sync/atomic value; there are
// no locks on TryRequest. The only mutually exclusive section in the whole
// package is the resize guard, and resize is rare (table growth only,
// never shrink).
//
// # Token accounting
//
// A limiter created with useSlidingWindow=false is a fixed window: tokens
// reset to the (possibly penalty-reduced) maximum once refillTimeMs has
// elapsed since the last refill. A limiter created with
// useSlidingWindow=true adds a proportional share of the maximum on every
// refill, clamped to the maximum, using integer division so results are
// reproducible across platforms.
//
// # Penalties
//
// AddPenalty/RemovePenalty adjust a per-entry penalty counter that linearly
// narrows the effective ceiling (dynamicMaxTokens) from the configured
// maximum down to 10% of it. A limiter created with maxPenaltyPoints=0 is
// immune to penalties; AddPenalty/RemovePenalty are no-ops on it.
//
// # Distributed coordination
//
// An entry created with a non-empty distributedKey consults a
// Coordinator during refill and admission. The coordinator is
// best-effort: any error from it is swallowed and the engine falls back to
// enforcing the limit purely locally (fail-open). The engine never imports
// a concrete coordinator implementation; see the coordinator package for a
// Redis-backed one.
//
// # IP filtering
//
// AddToWhitelist/AddToBlacklist/RemoveFromWhitelist/RemoveFromBlacklist
// manage two independent copy-on-write sets of IP literals, checked before
// any bucket lookup. A blacklisted IP is always denied; a whitelisted IP is
// always admitted without consuming a token, even if its key's bucket is
// empty.
//
// # Known limitation: tombstone shadowing
//
// RemoveLimiter marks a slot invalid rather than tombstoning it. A lookup
// stops at the first invalid slot on a probe chain, so a key created after
// one of its probe-chain predecessors was removed is reachable, but a
// third key sharing the same chain past that slot is not. This mirrors the
// source implementation's accepted behavior; callers should not rely on
// transparent reuse of a chain across a remove/create pair for unrelated
// keys.
package engine
