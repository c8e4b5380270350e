package clock

import (
	"testing"
)

func TestCheckDrift_UnreachableServerReturnsWrappedError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network-dependent test in short mode")
	}

	// A reserved, non-routable address: this should fail fast rather than
	// hang, and CheckDrift must surface the failure rather than panic.
	_, err := CheckDrift("198.51.100.1")
	if err == nil {
		t.Error("expected an error querying an unreachable NTP server")
	}
}
