package gateway_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/gateway"
	"github.com/shiftbook/mailroom/internal/ratelimiter"
)

type errorStore struct{}

func (errorStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("backend down")
}

func newGuard(store ratelimiter.CounterStore, threshold int64, policy gateway.Policy) *gateway.Guard {
	lim := ratelimiter.New(store, "test", threshold, time.Minute, 100*time.Millisecond, zap.NewNop())
	return gateway.NewGuard(lim, policy, zap.NewNop(), nil)
}

func TestGuard_AllowedProceeds(t *testing.T) {
	g := newGuard(ratelimiter.NewMemoryStore(), 5, gateway.FailClosed)

	v := g.Check(context.Background(), "user-1")
	if !v.Proceed {
		t.Fatalf("expected proceed, got reason %v", v.Reason)
	}
}

func TestGuard_OverLimitRejectsUnderBothPolicies(t *testing.T) {
	for _, policy := range []gateway.Policy{gateway.FailOpen, gateway.FailClosed} {
		t.Run(policy.String(), func(t *testing.T) {
			g := newGuard(ratelimiter.NewMemoryStore(), 1, policy)
			ctx := context.Background()

			g.Check(ctx, "user-1")
			v := g.Check(ctx, "user-1")
			if v.Proceed {
				t.Fatal("expected rejection over the limit")
			}
			if !errors.Is(v.Reason, domain.ErrRateLimited) {
				t.Fatalf("expected ErrRateLimited, got %v", v.Reason)
			}
		})
	}
}

func TestGuard_DegradedFailOpenProceeds(t *testing.T) {
	g := newGuard(errorStore{}, 5, gateway.FailOpen)

	v := g.Check(context.Background(), "user-1")
	if !v.Proceed {
		t.Fatalf("fail-open guard must proceed on limiter outage, got %v", v.Reason)
	}
}

func TestGuard_DegradedFailClosedRejectsGenerically(t *testing.T) {
	g := newGuard(errorStore{}, 5, gateway.FailClosed)

	v := g.Check(context.Background(), "user-1")
	if v.Proceed {
		t.Fatal("fail-closed guard must reject on limiter outage")
	}
	if !errors.Is(v.Reason, domain.ErrLimiterUnavailable) {
		t.Fatalf("expected ErrLimiterUnavailable, got %v", v.Reason)
	}
	// The reason must not leak limiter internals to a probing caller.
	msg := v.Reason.Error()
	for _, forbidden := range []string{"backend down", "remaining", "limit="} {
		if strings.Contains(msg, forbidden) {
			t.Fatalf("rejection reason leaks internals: %q", msg)
		}
	}
}

func TestGuard_ParsePolicy(t *testing.T) {
	if gateway.ParsePolicy("fail_open") != gateway.FailOpen {
		t.Fatal("fail_open should parse to FailOpen")
	}
	if gateway.ParsePolicy("fail_closed") != gateway.FailClosed {
		t.Fatal("fail_closed should parse to FailClosed")
	}
	if gateway.ParsePolicy("garbage") != gateway.FailClosed {
		t.Fatal("unknown policy should default to the stricter FailClosed")
	}
}

func TestIdentity(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/checkout/sessions", nil)
	r.RemoteAddr = "203.0.113.7:54321"

	if got := gateway.Identity(r); got != "203.0.113.7" {
		t.Fatalf("expected IP fallback, got %q", got)
	}

	r.Header.Set(gateway.UserIDHeader, "user-42")
	if got := gateway.Identity(r); got != "user-42" {
		t.Fatalf("expected user id to win over IP, got %q", got)
	}
}
