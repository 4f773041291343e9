package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shiftbook/mailroom/internal/domain"
)

// MockEmailRepository is a hand-written, in-memory implementation of
// EmailRepository used in unit tests. No mock-generation library needed.
//
// ClaimPending holds the mutex across its whole select-and-update, so the
// mock honours the same atomicity contract as the SQL implementation and
// concurrency tests against it are meaningful.
type MockEmailRepository struct {
	mu       sync.RWMutex
	messages map[string]*domain.EmailMessage

	// Optional error overrides — set in tests to simulate failure paths.
	ClaimErr      error
	MarkSentErr   error
	MarkFailedErr error
}

func NewMockEmailRepository() *MockEmailRepository {
	return &MockEmailRepository{
		messages: make(map[string]*domain.EmailMessage),
	}
}

func (m *MockEmailRepository) Enqueue(_ context.Context, msg *domain.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *msg
	m.messages[msg.ID] = &clone
	return nil
}

func (m *MockEmailRepository) GetByID(_ context.Context, id string) (*domain.EmailMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msg, ok := m.messages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *msg
	return &clone, nil
}

func (m *MockEmailRepository) List(_ context.Context, f domain.ListFilter) ([]*domain.EmailMessage, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.EmailMessage
	for _, msg := range m.messages {
		if f.Status != nil && msg.Status != *f.Status {
			continue
		}
		if f.Type != nil && msg.Type != *f.Type {
			continue
		}
		clone := *msg
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, len(result), nil
}

func (m *MockEmailRepository) CountByStatus(_ context.Context) (map[domain.Status]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[domain.Status]int)
	for _, msg := range m.messages {
		counts[msg.Status]++
	}
	return counts, nil
}

func (m *MockEmailRepository) ClaimPending(_ context.Context, batchSize int) ([]*domain.EmailMessage, error) {
	if m.ClaimErr != nil {
		return nil, m.ClaimErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var pending []*domain.EmailMessage
	for _, msg := range m.messages {
		if msg.Status == domain.StatusPending {
			pending = append(pending, msg)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if len(pending) > batchSize {
		pending = pending[:batchSize]
	}

	claimed := make([]*domain.EmailMessage, 0, len(pending))
	for _, msg := range pending {
		msg.Status = domain.StatusProcessing
		msg.UpdatedAt = time.Now().UTC()
		clone := *msg
		claimed = append(claimed, &clone)
	}
	return claimed, nil
}

func (m *MockEmailRepository) MarkSent(_ context.Context, id string) error {
	if m.MarkSentErr != nil {
		return m.MarkSentErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.messages[id]; ok {
		if msg.Status != domain.StatusProcessing && msg.Status != domain.StatusSent {
			return nil
		}
		msg.Status = domain.StatusSent
		msg.ErrorMessage = nil
		msg.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MockEmailRepository) MarkFailed(_ context.Context, id, errMsg string) error {
	if m.MarkFailedErr != nil {
		return m.MarkFailedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.messages[id]; ok {
		if msg.Status != domain.StatusProcessing && msg.Status != domain.StatusFailed {
			return nil
		}
		msg.Status = domain.StatusFailed
		msg.ErrorMessage = &errMsg
		msg.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MockEmailRepository) ReleaseStale(_ context.Context, olderThan time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().UTC().Add(-olderThan)
	released := 0
	for _, msg := range m.messages {
		if msg.Status == domain.StatusProcessing && msg.UpdatedAt.Before(cutoff) {
			msg.Status = domain.StatusPending
			msg.UpdatedAt = time.Now().UTC()
			released++
		}
	}
	return released, nil
}

func (m *MockEmailRepository) Requeue(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return domain.ErrNotFound
	}
	if msg.Status != domain.StatusFailed {
		return domain.ErrNotRequeueable
	}
	msg.Status = domain.StatusPending
	msg.ErrorMessage = nil
	msg.UpdatedAt = time.Now().UTC()
	return nil
}

// MockAuditLogRepository collects inserted logs in memory.
type MockAuditLogRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog

	InsertErr error
}

func NewMockAuditLogRepository() *MockAuditLogRepository {
	return &MockAuditLogRepository{}
}

func (m *MockAuditLogRepository) Insert(_ context.Context, l *domain.AuditLog) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *l
	m.Logs = append(m.Logs, &clone)
	return nil
}
