package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/shiftbook/mailroom/internal/api/middleware"
	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/service"
)

// CheckoutHandler creates payment sessions. The route is wrapped by a
// fail-open rate-limit guard: a limiter outage must never block payment.
type CheckoutHandler struct {
	svc    *service.CheckoutService
	logger *zap.Logger
}

func NewCheckoutHandler(svc *service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, logger: logger}
}

// CreateSession handles POST /api/v1/checkout/sessions
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := h.svc.CreateSession(r.Context(), &req)
	if err != nil {
		h.logger.Warn("create checkout session failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"clientSecret": session.ClientSecret,
	})
}
