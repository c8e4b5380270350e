/*
Package rlengine is a lock-free, in-process rate-limiting engine built
around a growable, open-addressed hash table of atomically-updated
token buckets.

Most of the work lives in subpackages:

  - engine holds the lock-free table and the token-bucket admission logic
    (Engine.TryRequest), dynamic penalty-driven limits, and IP allow/deny
    filtering.
  - coordinator implements engine.Coordinator against Redis, for
    deployments that need several processes to agree on a shared quota,
    plus a read-through cache in front of it and an event broker for
    propagating penalty and removal events between them.
  - simplelimiter carries three smaller, mutex-based limiters (a ring
    buffer, a min-heap, and a token-bucket wrapper around
    golang.org/x/time/rate) for callers who don't need the lock-free
    table's throughput.
  - httpserver wires an *engine.Engine into net/http as rate-limiting
    middleware, plus a Prometheus metrics handler.
  - clock and durationutil hold small time utilities the rest of the
    module depends on.
  - cmd/server is a runnable HTTP server built from the above.

A minimal, single-process setup needs only the engine package:

	eng := engine.New(1024)
	eng.CreateLimiter("api", 100, time.Minute, false, 0, 0, "")
	if !eng.TryRequest("api", clientIP) {
		// reject
	}
*/
package rlengine
