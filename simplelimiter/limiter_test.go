package simplelimiter_test

import (
	"testing"
	"time"

	"github.com/parkerroan/rlengine/simplelimiter"
)

func BenchmarkRingLimiter(b *testing.B) {
	rl := simplelimiter.NewRingLimiter(10, time.Second)
	now := time.Now()

	for i := 0; i < b.N; i++ {
		rl.Try(now)
		rl.Accept(now)
	}
}

func BenchmarkHeapLimiter(b *testing.B) {
	hl := simplelimiter.NewHeapLimiter(10, time.Second)
	now := time.Now()

	for i := 0; i < b.N; i++ {
		hl.Try(now)
		hl.Accept(now)
	}
}
