package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/gateway"
	"github.com/shiftbook/mailroom/internal/repository"
)

// LogHandler ingests client-side audit events. The route sits behind a
// fail-closed rate-limit guard, and responses stay terse: logging is not
// business-critical, so callers get no detail beyond the status code.
type LogHandler struct {
	repo   repository.AuditLogRepository
	logger *zap.Logger
}

func NewLogHandler(repo repository.AuditLogRepository, logger *zap.Logger) *LogHandler {
	return &LogHandler{repo: repo, logger: logger}
}

// Insert handles POST /api/v1/logs
func (h *LogHandler) Insert(w http.ResponseWriter, r *http.Request) {
	var req domain.InsertLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid log format")
		return
	}
	if err := req.Validate(); err != nil {
		mapError(w, err)
		return
	}

	// Rebuild the record from validated fields only; the client does not
	// get to choose its user id, ip, or timestamp.
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		EventType: req.EventType,
		Severity:  req.Severity,
		Metadata:  req.Metadata,
		IPAddress: clientIP(r),
		CreatedAt: time.Now().UTC(),
	}
	if uid := strings.TrimSpace(r.Header.Get(gateway.UserIDHeader)); uid != "" {
		entry.UserID = &uid
	}

	if err := h.repo.Insert(r.Context(), entry); err != nil {
		h.logger.Error("audit log insert failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "logged"})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
