package payments

import (
	"context"

	"github.com/shiftbook/mailroom/internal/domain"
)

// SessionCreator abstracts the payment provider's checkout-session API.
type SessionCreator interface {
	CreateSession(ctx context.Context, req *domain.CheckoutRequest) (*domain.CheckoutSession, error)
}
