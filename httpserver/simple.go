package httpserver

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/parkerroan/rlengine/simplelimiter"
)

// SimpleKeyFunc extracts the key a SimpleMiddleware limiter is keyed by.
type SimpleKeyFunc func(r *http.Request) string

// SimpleMiddleware builds net/http middleware backed by one of the
// mutex-based limiters in simplelimiter rather than engine.Engine. It
// exists for callers who would rather trade the lock-free table's
// throughput for a smaller implementation: one RingLimiter, HeapLimiter,
// or TokenLimiter per key returned by keyFn, built lazily with newLimiter
// on the key's first request. A keyFn that returns a constant key makes
// every request share one limiter.
func SimpleMiddleware(newLimiter simplelimiter.NewLimiterFunc, size int, window time.Duration, keyFn SimpleKeyFunc) func(http.Handler) http.Handler {
	pool := &limiterPool{
		newLimiter: newLimiter,
		size:       size,
		window:     window,
		limiters:   make(map[string]simplelimiter.Limiter),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			lim := pool.get(key)

			if !lim.TryAccept(time.Now()) {
				w.Header().Set("RateLimit-Limit", fmt.Sprintf("%d", size))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// limiterPool lazily constructs one Limiter per key, since
// simplelimiter's limiters (unlike engine.Engine) have no notion of a
// keyed table of their own.
type limiterPool struct {
	newLimiter simplelimiter.NewLimiterFunc
	size       int
	window     time.Duration

	mu       sync.Mutex
	limiters map[string]simplelimiter.Limiter
}

func (p *limiterPool) get(key string) simplelimiter.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	lim, ok := p.limiters[key]
	if !ok {
		lim = p.newLimiter(p.size, p.window)
		p.limiters[key] = lim
	}
	return lim
}
