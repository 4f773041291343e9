package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/api/middleware"
	"github.com/shiftbook/mailroom/internal/gateway"
	"github.com/shiftbook/mailroom/internal/ratelimiter"
)

type errorStore struct{}

func (errorStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("backend down")
}

func guardedHandler(store ratelimiter.CounterStore, threshold int64, policy gateway.Policy) http.Handler {
	lim := ratelimiter.New(store, "test", threshold, time.Minute, 100*time.Millisecond, zap.NewNop())
	guard := gateway.NewGuard(lim, policy, zap.NewNop(), nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.RateLimit(guard)(next)
}

func doRequest(h http.Handler) *httptest.ResponseRecorder {
	r := httptest.NewRequest("POST", "/guarded", nil)
	r.RemoteAddr = "203.0.113.7:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestRateLimit_AllowsUnderThreshold(t *testing.T) {
	h := guardedHandler(ratelimiter.NewMemoryStore(), 5, gateway.FailClosed)

	if w := doRequest(h); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRateLimit_RejectsOverThreshold(t *testing.T) {
	h := guardedHandler(ratelimiter.NewMemoryStore(), 1, gateway.FailOpen)

	doRequest(h)
	w := doRequest(h)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on 429")
	}
}

func TestRateLimit_OutageFailOpen(t *testing.T) {
	h := guardedHandler(errorStore{}, 5, gateway.FailOpen)

	if w := doRequest(h); w.Code != http.StatusOK {
		t.Fatalf("fail-open endpoint must serve through a limiter outage, got %d", w.Code)
	}
}

func TestRateLimit_OutageFailClosed(t *testing.T) {
	h := guardedHandler(errorStore{}, 5, gateway.FailClosed)

	w := doRequest(h)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "backend down") || strings.Contains(body, "remaining") {
		t.Fatalf("response leaks limiter internals: %s", body)
	}
}
