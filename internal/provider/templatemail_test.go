package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/provider"
)

func testMessage() *domain.EmailMessage {
	return &domain.EmailMessage{
		ID:            "msg-1",
		Type:          domain.TypeBookingRequest,
		Recipient:     "locum@example.com",
		RecipientName: "Sam",
		TemplateData:  map[string]string{"venue_name": "Harbour Pharmacy"},
		Status:        domain.StatusProcessing,
	}
}

func TestTemplateMailProvider_Send(t *testing.T) {
	var got provider.SendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing API key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(provider.SendResult{MessageID: "prov-123", Status: "accepted"})
	}))
	defer srv.Close()

	p := provider.NewTemplateMailProvider(srv.URL, "test-key", time.Second)
	result, err := p.Send(context.Background(), testMessage())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MessageID != "prov-123" {
		t.Fatalf("expected provider message id, got %q", result.MessageID)
	}

	if got.To.Address != "locum@example.com" || got.To.DisplayName != "Sam" {
		t.Fatalf("unexpected recipient: %+v", got.To)
	}
	if got.TemplateID == 0 {
		t.Fatal("expected a template id for the message type")
	}
	if got.TemplateData["venue_name"] != "Harbour Pharmacy" {
		t.Fatalf("template data not forwarded: %v", got.TemplateData)
	}
}

func TestTemplateMailProvider_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := provider.NewTemplateMailProvider(srv.URL, "test-key", time.Second)
	if _, err := p.Send(context.Background(), testMessage()); err == nil {
		t.Fatal("expected error on non-2xx provider status")
	}
}

func TestTemplateMailProvider_UnknownType(t *testing.T) {
	p := provider.NewTemplateMailProvider("http://unused.example", "test-key", time.Second)
	m := testMessage()
	m.Type = "unknown"
	if _, err := p.Send(context.Background(), m); err == nil {
		t.Fatal("expected error for unregistered message type")
	}
}
