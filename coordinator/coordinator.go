// Package coordinator provides engine.Coordinator implementations: a
// Redis-backed reference coordinator for multi-node deployments, and a
// read-through cache that sits in front of it.
//
// The engine package treats a Coordinator as a narrow, best-effort
// capability; none of its own code lives in this package, and nothing
// here is imported by engine. Wiring happens one level up, in whatever
// constructs an engine.Engine (see cmd/server).
package coordinator

import "github.com/parkerroan/rlengine/engine"

// var assertions, kept here rather than scattered across redis.go/cache.go,
// document at a glance which types in this package satisfy the engine's
// Coordinator interface.
var (
	_ engine.Coordinator = (*RedisCoordinator)(nil)
	_ engine.Coordinator = (*CachedCoordinator)(nil)
)
