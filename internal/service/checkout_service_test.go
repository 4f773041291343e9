package service_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/service"
)

type fakeSessionCreator struct {
	session *domain.CheckoutSession
	err     error
	gotReq  *domain.CheckoutRequest
}

func (f *fakeSessionCreator) CreateSession(_ context.Context, req *domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	f.gotReq = req
	return f.session, f.err
}

func TestCheckoutService_CreateSession(t *testing.T) {
	fake := &fakeSessionCreator{session: &domain.CheckoutSession{ID: "cs_1", ClientSecret: "secret"}}
	svc := service.NewCheckoutService(fake, zap.NewNop())

	session, err := svc.CreateSession(context.Background(), &domain.CheckoutRequest{
		Cents: 2500, Currency: "aud", Title: "Donation", Email: "donor@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.ClientSecret != "secret" {
		t.Fatalf("expected client secret passed through, got %q", session.ClientSecret)
	}
	if fake.gotReq == nil {
		t.Fatal("provider was not called")
	}
}

func TestCheckoutService_ValidationBeforeProviderCall(t *testing.T) {
	fake := &fakeSessionCreator{}
	svc := service.NewCheckoutService(fake, zap.NewNop())

	_, err := svc.CreateSession(context.Background(), &domain.CheckoutRequest{Cents: 10, Email: "a@b.c"})
	if err != domain.ErrAmountTooSmall {
		t.Fatalf("expected ErrAmountTooSmall, got %v", err)
	}
	if fake.gotReq != nil {
		t.Fatal("provider must not be called for an invalid request")
	}
}

func TestCheckoutService_ProviderError(t *testing.T) {
	fake := &fakeSessionCreator{err: errors.New("gateway 500")}
	svc := service.NewCheckoutService(fake, zap.NewNop())

	_, err := svc.CreateSession(context.Background(), &domain.CheckoutRequest{
		Cents: 100, Currency: "aud", Title: "Booking", Email: "a@b.c",
	})
	if err == nil {
		t.Fatal("expected provider error to propagate")
	}
}
