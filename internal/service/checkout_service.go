package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/payments"
)

// CheckoutService validates checkout requests and creates sessions with
// the payment provider. Rate limiting happens before this layer, in the
// gateway guard.
type CheckoutService struct {
	sessions payments.SessionCreator
	logger   *zap.Logger
}

func NewCheckoutService(sessions payments.SessionCreator, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{sessions: sessions, logger: logger}
}

func (s *CheckoutService) CreateSession(ctx context.Context, req *domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessions.CreateSession(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	s.logger.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.Int64("cents", req.Cents),
		zap.String("currency", req.Currency),
	)
	return session, nil
}
