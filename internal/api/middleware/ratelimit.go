package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/gateway"
)

// RateLimit binds a gateway guard to a route. Over-limit callers get 429;
// a limiter outage under a fail-closed guard gets 503. Both bodies are
// generic on purpose — no counters, no window details.
func RateLimit(guard *gateway.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verdict := guard.Check(r.Context(), gateway.Identity(r))
			if verdict.Proceed {
				next.ServeHTTP(w, r)
				return
			}

			status := http.StatusTooManyRequests
			if errors.Is(verdict.Reason, domain.ErrLimiterUnavailable) {
				status = http.StatusServiceUnavailable
			} else {
				w.Header().Set("Retry-After", "60")
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": verdict.Reason.Error()})
		})
	}
}
