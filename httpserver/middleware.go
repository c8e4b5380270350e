package httpserver

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/parkerroan/rlengine/engine"
)

// KeyFunc extracts the rate-limit key (and, optionally, the client IP
// used for allow/deny filtering) from an inbound request.
type KeyFunc func(r *http.Request) (key, ip string)

// Middleware builds net/http middleware that admits requests through eng,
// using keyFn to determine what key (and IP) each request is limited by.
// Denied requests get a 429 with RateLimit-* headers set from
// eng.GetRateLimitInfo; admitted requests pass through untouched except
// for an added X-Request-Id header.
func Middleware(eng *engine.Engine, keyFn KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ip := keyFn(r)
			w.Header().Set("X-Request-Id", uuid.NewString())

			if !eng.TryRequest(key, ip) {
				info := eng.GetRateLimitInfo(key)
				w.Header().Set("RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
				w.Header().Set("RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
				w.Header().Set("RateLimit-Reset", fmt.Sprintf("%d", info.Reset))
				if info.Blocked {
					w.Header().Set("Retry-After", fmt.Sprintf("%d", info.RetryAfter))
				}
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RemoteAddrKey is a KeyFunc that limits (and filters) by the request's
// RemoteAddr, suitable for simple per-IP limiting setups.
func RemoteAddrKey(r *http.Request) (key, ip string) {
	return r.RemoteAddr, r.RemoteAddr
}
