package provider

import (
	"context"

	"github.com/shiftbook/mailroom/internal/domain"
)

// SendRequest is the JSON body posted to the template-mail API.
type SendRequest struct {
	To           Address           `json:"to"`
	From         Address           `json:"from"`
	Subject      string            `json:"subject,omitempty"`
	TemplateID   int               `json:"template_id"`
	TemplateData map[string]string `json:"template_data"`
}

// Address is a recipient or sender in provider format.
type Address struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name,omitempty"`
}

// SendResult maps the provider's success response body.
type SendResult struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// Provider abstracts delivery to the external mail service.
// Mocking this interface in tests gives full control over provider behaviour
// without making real HTTP calls.
type Provider interface {
	Send(ctx context.Context, m *domain.EmailMessage) (*SendResult, error)
}
