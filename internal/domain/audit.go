package domain

import "time"

// Severity classifies a client-submitted audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError, SeverityCritical:
		return true
	}
	return false
}

// AuditLog is an ingested client event. The server owns user attribution
// and timestamps; nothing from the client body is trusted beyond the
// validated fields.
type AuditLog struct {
	ID        string         `json:"id"`
	EventType string         `json:"event_type"`
	Severity  Severity       `json:"severity"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IPAddress string         `json:"ip_address"`
	UserID    *string        `json:"user_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// InsertLogRequest is the inbound payload for the log-ingestion endpoint.
type InsertLogRequest struct {
	EventType string         `json:"event_type"`
	Severity  Severity       `json:"severity"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func (r *InsertLogRequest) Validate() error {
	if r.EventType == "" || len(r.EventType) > 500 {
		return ErrEventTooLong
	}
	if !r.Severity.IsValid() {
		return ErrInvalidSeverity
	}
	return nil
}
