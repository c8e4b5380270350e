// Package clock provides the engine's time source and an operational
// diagnostic for checking host clock drift against a network time server.
//
// NowMillis is the only function the rate-limiting engine's own contract
// depends on, and it reads Go's monotonic clock reading only - the engine
// must never be fed a wall-clock value, since a wall-clock jump (an NTP
// correction, a manual clock change) would otherwise corrupt refill and
// block-duration arithmetic, and nothing in this package substitutes one.
package clock

import "time"

// start anchors the monotonic reading this package hands out. time.Since
// uses the monotonic component Go's time.Time carries internally, so
// differences between two NowMillis calls are unaffected by wall-clock
// adjustments (NTP corrections, manual clock changes) even though
// time.Now().UnixNano() itself is not.
var start = time.Now()

// NowMillis returns milliseconds elapsed since this package was
// initialized, as a monotonic clock reading. It is never negative and
// never goes backward within one process.
func NowMillis() int64 {
	return int64(time.Since(start) / time.Millisecond)
}
