package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/repository"
)

// EmailService is the producer-facing surface of the queue: it validates
// and persists new messages in pending, and answers queries. Draining is
// the worker package's job; the two only meet at the repository.
type EmailService struct {
	repo   repository.EmailRepository
	logger *zap.Logger
}

func NewEmailService(repo repository.EmailRepository, logger *zap.Logger) *EmailService {
	return &EmailService{repo: repo, logger: logger}
}

// Enqueue validates and persists a single message in pending status.
// The next drain cycle picks it up.
func (s *EmailService) Enqueue(ctx context.Context, req domain.EnqueueEmailRequest) (*domain.EmailMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &domain.EmailMessage{
		ID:            uuid.New().String(),
		Type:          req.Type,
		Recipient:     req.Recipient,
		RecipientName: req.RecipientName,
		TemplateData:  req.TemplateData,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if m.TemplateData == nil {
		m.TemplateData = map[string]string{}
	}

	if err := s.repo.Enqueue(ctx, m); err != nil {
		return nil, fmt.Errorf("persist email: %w", err)
	}
	return m, nil
}

func (s *EmailService) GetByID(ctx context.Context, id string) (*domain.EmailMessage, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EmailService) List(ctx context.Context, filter domain.ListFilter) ([]*domain.EmailMessage, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *EmailService) StatusCounts(ctx context.Context) (map[domain.Status]int, error) {
	return s.repo.CountByStatus(ctx)
}

// Requeue flips a failed message back to pending. Operator tooling only.
func (s *EmailService) Requeue(ctx context.Context, id string) error {
	if err := s.repo.Requeue(ctx, id); err != nil {
		return err
	}
	s.logger.Info("message requeued", zap.String("message_id", id))
	return nil
}
