package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/service"
	"github.com/shiftbook/mailroom/internal/worker"
)

// QueueHandler serves the queue snapshot and the on-demand drain trigger.
// Raw Prometheus metrics (counters, histograms) are available at /metrics
// via promhttp.Handler and are separate from these endpoints.
type QueueHandler struct {
	svc     *service.EmailService
	drainer *worker.Drainer
	logger  *zap.Logger
}

func NewQueueHandler(svc *service.EmailService, drainer *worker.Drainer, logger *zap.Logger) *QueueHandler {
	return &QueueHandler{svc: svc, drainer: drainer, logger: logger}
}

// Snapshot handles GET /api/v1/queue — message counts by status.
func (h *QueueHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.StatusCounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read queue state")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"queue": counts})
}

// Drain handles POST /api/v1/queue/drain — runs one drain cycle now
// instead of waiting for the next tick. Safe to call while the ticker
// drain is mid-cycle; the claim guarantees disjoint batches.
func (h *QueueHandler) Drain(w http.ResponseWriter, r *http.Request) {
	report, err := h.drainer.DrainOnce(r.Context())
	if err != nil {
		h.logger.Error("on-demand drain failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "drain failed")
		return
	}
	respondJSON(w, http.StatusOK, report)
}
