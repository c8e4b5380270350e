// Package httpserver exposes a rate limiter over HTTP. Middleware builds
// the default, engine.Engine-backed middleware: it admits or rejects
// requests and sets RateLimit-* response headers, and pairs with a
// Prometheus metrics handler mirroring the engine's own counters.
//
// SimpleMiddleware offers the same admit-or-429 shape backed by one of
// simplelimiter's mutex-based limiters instead, for callers who don't
// need engine.Engine's throughput.
//
// The engine's own contract keeps binding glue like this out of its
// narrow interface - here that glue is just ordinary Go net/http, not
// cross-language FFI, so it lives in this repository rather than behind
// a separate boundary.
package httpserver
