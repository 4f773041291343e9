package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shiftbook/mailroom/internal/domain"
)

// CheckoutProvider creates embedded checkout sessions against a
// Stripe-style form-encoded API. One-off requests become mode=payment;
// a recurring frequency switches the session to mode=subscription.
type CheckoutProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewCheckoutProvider(baseURL, apiKey string, timeout time.Duration) *CheckoutProvider {
	return &CheckoutProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type sessionResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

func (p *CheckoutProvider) CreateSession(ctx context.Context, cr *domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	form := url.Values{}
	form.Set("ui_mode", "embedded")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", cr.Currency)
	form.Set("line_items[0][price_data][product_data][name]", cr.Title)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(cr.Cents, 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("return_url", cr.ReturnURL+"?session_id={CHECKOUT_SESSION_ID}")
	form.Set("customer_email", cr.Email)

	if cr.Frequency != "" {
		form.Set("mode", "subscription")
		form.Set("line_items[0][price_data][recurring][interval]", cr.Frequency)
	} else {
		form.Set("mode", "payment")
	}

	if cr.Name != "" {
		form.Set("metadata[name]", cr.Name)
	}
	if cr.Phone != "" {
		form.Set("metadata[phone]", cr.Phone)
	}
	if cr.Org != "" {
		form.Set("metadata[org]", cr.Org)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected checkout status: %d", resp.StatusCode)
	}

	var sr sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &domain.CheckoutSession{ID: sr.ID, ClientSecret: sr.ClientSecret}, nil
}

// compile-time check that CheckoutProvider implements SessionCreator
var _ SessionCreator = (*CheckoutProvider)(nil)
