package repository

import (
	"context"
	"time"

	"github.com/shiftbook/mailroom/internal/domain"
)

// EmailRepository defines all persistence operations for queued emails.
// The pgx implementation is in pg_email_repo.go.
// Tests use a hand-written mock (mock_email_repo.go).
type EmailRepository interface {
	Enqueue(ctx context.Context, m *domain.EmailMessage) error
	GetByID(ctx context.Context, id string) (*domain.EmailMessage, error)
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.EmailMessage, int, error)
	CountByStatus(ctx context.Context) (map[domain.Status]int, error)

	// ClaimPending atomically transitions up to batchSize pending messages
	// to processing and returns them, oldest first. Two overlapping calls
	// must never both claim the same row: the implementation has to
	// perform select-and-update as one conditional statement, not as a
	// read followed by a write. An empty queue yields an empty slice, not
	// an error.
	ClaimPending(ctx context.Context, batchSize int) ([]*domain.EmailMessage, error)

	// MarkSent and MarkFailed persist a terminal status for one message.
	// Both are idempotent: re-finalizing re-asserts the same terminal
	// state and never moves a row back to processing.
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errMsg string) error

	// ReleaseStale returns processing rows last touched before the cutoff
	// back to pending, reporting how many were recovered. This is the
	// safety net for drains killed between claim and finalize.
	ReleaseStale(ctx context.Context, olderThan time.Duration) (int, error)

	// Requeue flips a failed message back to pending for another attempt.
	// Operator-facing; there is no automatic retry.
	Requeue(ctx context.Context, id string) error
}

// AuditLogRepository persists ingested client events.
type AuditLogRepository interface {
	Insert(ctx context.Context, l *domain.AuditLog) error
}
