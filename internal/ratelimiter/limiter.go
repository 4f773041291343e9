package ratelimiter

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Decision is the outcome of one limiter check.
//
// When Degraded is set, the counter backend errored or timed out: Allowed
// is forced true and Limit/Remaining carry no information. Whether a
// degraded decision actually lets the request through is the gateway
// guard's call, not the limiter's.
type Decision struct {
	Identity  string
	Allowed   bool
	Limit     int64
	Remaining int64
	Degraded  bool
}

// CounterStore increments the counter for a key and reports the count
// accumulated within the current window. Implementations own window
// bookkeeping (expiry, rollover).
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter applies a fixed-window counting policy keyed by caller identity.
//
// The limiter is constructed once at startup and shared across handlers;
// Check is safe for concurrent use. Every backend round trip is bounded by
// the configured timeout so a slow counter store cannot stall the request
// path: a timeout is treated exactly like a backend error.
type Limiter struct {
	store     *prefixedStore
	threshold int64
	window    time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

// prefixedStore namespaces keys so independent limiters sharing one Redis
// never collide.
type prefixedStore struct {
	inner  CounterStore
	prefix string
}

func (p *prefixedStore) incr(ctx context.Context, identity string, window time.Duration) (int64, error) {
	return p.inner.Incr(ctx, p.prefix+":"+identity, window)
}

// New builds a limiter over the given store. scope names the endpoint the
// limiter protects (used as key prefix and in logs).
func New(store CounterStore, scope string, threshold int64, window, timeout time.Duration, logger *zap.Logger) *Limiter {
	return &Limiter{
		store:     &prefixedStore{inner: store, prefix: "ratelimit:" + scope},
		threshold: threshold,
		window:    window,
		timeout:   timeout,
		logger:    logger.With(zap.String("limiter", scope)),
	}
}

// Check increments the identity's window counter and decides.
//
// A backend error never reaches the caller as an error: the decision comes
// back Allowed and Degraded, and the failure is logged here. Callers that
// need stricter behaviour inspect Degraded.
func (l *Limiter) Check(ctx context.Context, identity string) Decision {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	count, err := l.store.incr(ctx, identity, l.window)
	if err != nil {
		l.logger.Warn("counter backend unavailable, failing open",
			zap.String("identity", identity),
			zap.Error(err),
		)
		return Decision{Identity: identity, Allowed: true, Degraded: true}
	}

	remaining := l.threshold - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Identity:  identity,
		Allowed:   count <= l.threshold,
		Limit:     l.threshold,
		Remaining: remaining,
	}
}
