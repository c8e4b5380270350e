package clock

import (
	"fmt"
	"time"

	"github.com/beevik/ntp"
)

// MaxAcceptableDrift is the threshold beyond which CheckDrift reports an
// error instead of silently returning the measured drift.
const MaxAcceptableDrift = 2 * time.Second

// CheckDrift queries server once and compares its response to the local
// wall clock, returning the measured offset. It is a boot-time
// diagnostic only: nothing in this package or in the engine it supports
// ever calls CheckDrift internally, and its result never feeds NowMillis.
// A large host/NTP disagreement usually means the host clock is wrong,
// which matters for anything logging wall-clock timestamps next to this
// engine's monotonic ones, even though it cannot affect the engine's own
// refill/block arithmetic.
func CheckDrift(server string) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return 0, fmt.Errorf("clock: querying ntp server %q: %w", server, err)
	}
	if err := resp.Validate(); err != nil {
		return 0, fmt.Errorf("clock: invalid ntp response from %q: %w", server, err)
	}

	drift := resp.ClockOffset
	if drift < 0 {
		drift = -drift
	}
	if drift > MaxAcceptableDrift {
		return resp.ClockOffset, fmt.Errorf("clock: host clock drift %s exceeds %s against %q", resp.ClockOffset, MaxAcceptableDrift, server)
	}
	return resp.ClockOffset, nil
}
