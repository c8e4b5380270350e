package clock

import (
	"testing"
	"time"
)

func TestNowMillis_NeverNegative(t *testing.T) {
	if NowMillis() < 0 {
		t.Error("NowMillis must never be negative")
	}
}

func TestNowMillis_MonotonicallyNonDecreasing(t *testing.T) {
	a := NowMillis()
	time.Sleep(10 * time.Millisecond)
	b := NowMillis()

	if b < a {
		t.Errorf("NowMillis went backward: %d then %d", a, b)
	}
	if b-a < 5 {
		t.Errorf("expected roughly 10ms to have elapsed, measured %dms", b-a)
	}
}
