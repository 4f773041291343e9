package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shiftbook/mailroom/internal/domain"
)

// Template ids registered with the mail provider, one per message type.
var templateIDs = map[domain.MessageType]int{
	domain.TypeBookingRequest: 4893,
	domain.TypeVenueRequest:   4899,
	domain.TypeBookingConfirm: 4902,
}

const senderAddress = "noreply@shiftbook.example"

// TemplateMailProvider delivers emails through a Maileroo-style template
// API. The base URL is injected from config so tests can point to a local
// mock server.
type TemplateMailProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewTemplateMailProvider(baseURL, apiKey string, timeout time.Duration) *TemplateMailProvider {
	return &TemplateMailProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send posts the rendered template request. Any non-2xx status is a
// delivery failure; the caller decides what to do with it.
func (p *TemplateMailProvider) Send(ctx context.Context, m *domain.EmailMessage) (*SendResult, error) {
	templateID, ok := templateIDs[m.Type]
	if !ok {
		return nil, fmt.Errorf("no template registered for type %q", m.Type)
	}

	body, err := json.Marshal(SendRequest{
		To:           Address{Address: m.Recipient, DisplayName: m.RecipientName},
		From:         Address{Address: senderAddress, DisplayName: "Shiftbook"},
		TemplateID:   templateID,
		TemplateData: m.TemplateData,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected provider status: %d", resp.StatusCode)
	}

	var result SendResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &result, nil
}

// compile-time check that TemplateMailProvider implements Provider
var _ Provider = (*TemplateMailProvider)(nil)
