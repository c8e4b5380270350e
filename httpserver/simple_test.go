package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/parkerroan/rlengine/httpserver"
	"github.com/parkerroan/rlengine/simplelimiter"
)

func TestSimpleMiddleware_AllowsThenDenies(t *testing.T) {
	handler := httpserver.SimpleMiddleware(
		simplelimiter.NewRingLimiterConstructorFunc(),
		2, time.Hour,
		func(r *http.Request) string { return "shared" },
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: want 200, got %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429 once the shared limiter is exhausted, got %d", rec.Code)
	}
}

func TestSimpleMiddleware_KeysAreIndependent(t *testing.T) {
	callCount := 0
	handler := httpserver.SimpleMiddleware(
		simplelimiter.NewRingLimiterConstructorFunc(),
		1, time.Hour,
		func(r *http.Request) string { return r.Header.Get("X-User") },
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		w.WriteHeader(http.StatusOK)
	}))

	for _, user := range []string{"alice", "bob"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-User", user)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("user %q should have its own fresh limiter, got %d", user, rec.Code)
		}
	}
	if callCount != 2 {
		t.Errorf("want both distinct-key requests admitted, got %d", callCount)
	}
}
