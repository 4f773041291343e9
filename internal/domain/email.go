package domain

import "time"

// MessageType selects the provider template used to render the email.
type MessageType string

const (
	TypeBookingRequest MessageType = "booking_request"
	TypeVenueRequest   MessageType = "venue_request"
	TypeBookingConfirm MessageType = "booking_confirm"
)

func (t MessageType) IsValid() bool {
	switch t {
	case TypeBookingRequest, TypeVenueRequest, TypeBookingConfirm:
		return true
	}
	return false
}

// Status tracks the lifecycle of a queued email.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSent, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether a message in this status is done for good.
// Terminal rows are never claimed again and are never reverted by a sweep.
func (s Status) IsTerminal() bool {
	return s == StatusSent || s == StatusFailed
}

// EmailMessage is the core queue entity. A row is created in pending by a
// producer (booking flow, admin tooling), claimed into processing by a
// drain cycle, and finalized into sent or failed. Rows are never deleted.
type EmailMessage struct {
	ID            string            `json:"id"`
	Type          MessageType       `json:"type"`
	Recipient     string            `json:"recipient"`
	RecipientName string            `json:"recipient_name"`
	TemplateData  map[string]string `json:"template_data"`
	Status        Status            `json:"status"`
	ErrorMessage  *string           `json:"error_message,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// EnqueueEmailRequest is the inbound payload for queueing a single email.
type EnqueueEmailRequest struct {
	Type          MessageType       `json:"type"`
	Recipient     string            `json:"recipient"`
	RecipientName string            `json:"recipient_name"`
	TemplateData  map[string]string `json:"template_data"`
}

func (r *EnqueueEmailRequest) Validate() error {
	if !r.Type.IsValid() {
		return ErrInvalidType
	}
	if r.Recipient == "" {
		return ErrInvalidRecipient
	}
	return nil
}

// ListFilter holds query parameters for paginated message listing.
type ListFilter struct {
	Status *Status
	Type   *MessageType
	Page   int
	Limit  int
}
