package gateway

import (
	"context"

	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/ratelimiter"
)

// Policy decides what happens when the limiter itself is unavailable.
//
// FailOpen lets the protected operation proceed — the checkout endpoint
// uses this, because losing revenue to a limiter outage is worse than
// briefly losing abuse protection. FailClosed rejects with a generic
// reason — the log-ingestion endpoint uses this, since dropped client
// logs are cheap.
type Policy int

const (
	FailOpen Policy = iota
	FailClosed
)

// ParsePolicy maps the config strings to a Policy. Unknown values fall
// back to FailClosed, the stricter of the two.
func ParsePolicy(s string) Policy {
	if s == "fail_open" {
		return FailOpen
	}
	return FailClosed
}

func (p Policy) String() string {
	if p == FailOpen {
		return "fail_open"
	}
	return "fail_closed"
}

// Verdict is the guard's answer for one request.
type Verdict struct {
	Proceed bool
	// Reason is set only on rejection. It is one of the two generic
	// sentinel errors and never carries limiter counters, so a probing
	// caller cannot tell an over-limit rejection apart from real details
	// of limiter state.
	Reason error
}

// Guard wraps a protected operation with a rate-limit check and a
// per-endpoint failure policy. One Guard per endpoint; the underlying
// limiter (and its counter store) may be shared.
type Guard struct {
	limiter *ratelimiter.Limiter
	policy  Policy
	logger  *zap.Logger

	// onDecision is an optional metrics hook: outcome is "allowed",
	// "rejected", or "degraded".
	onDecision func(outcome string)
}

func NewGuard(limiter *ratelimiter.Limiter, policy Policy, logger *zap.Logger, onDecision func(string)) *Guard {
	if onDecision == nil {
		onDecision = func(string) {}
	}
	return &Guard{limiter: limiter, policy: policy, logger: logger, onDecision: onDecision}
}

// Check runs the limiter and applies the policy.
//
//   - limiter degraded + FailOpen   → proceed
//   - limiter degraded + FailClosed → reject, "rate limiter unavailable"
//   - allowed=false                 → reject, "too many requests" (any policy)
//   - allowed=true                  → proceed
func (g *Guard) Check(ctx context.Context, identity string) Verdict {
	dec := g.limiter.Check(ctx, identity)

	if dec.Degraded {
		g.onDecision("degraded")
		if g.policy == FailOpen {
			return Verdict{Proceed: true}
		}
		return Verdict{Reason: domain.ErrLimiterUnavailable}
	}

	if !dec.Allowed {
		g.onDecision("rejected")
		g.logger.Warn("rate limit hit",
			zap.String("identity", identity),
			zap.Int64("limit", dec.Limit),
		)
		return Verdict{Reason: domain.ErrRateLimited}
	}

	g.onDecision("allowed")
	return Verdict{Proceed: true}
}
