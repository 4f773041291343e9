package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/repository"
	"github.com/shiftbook/mailroom/internal/worker"
)

func seedProcessing(t *testing.T, repo *repository.MockEmailRepository, n int) []string {
	t.Helper()
	ctx := context.Background()
	ids := make([]string, n)
	base := time.Now().UTC().Add(-time.Minute)
	for i := range ids {
		ids[i] = uuid.New().String()
		err := repo.Enqueue(ctx, &domain.EmailMessage{
			ID:        ids[i],
			Type:      domain.TypeBookingRequest,
			Recipient: "worker@example.com",
			Status:    domain.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			UpdatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if _, err := repo.ClaimPending(ctx, n); err != nil {
		t.Fatalf("claim: %v", err)
	}
	return ids
}

func TestFinalizer_MixedOutcomes(t *testing.T) {
	repo := repository.NewMockEmailRepository()
	ids := seedProcessing(t, repo, 3)
	f := worker.NewFinalizer(repo, zap.NewNop())
	ctx := context.Background()

	sent, failed := f.Finalize(ctx, []worker.Outcome{
		{ID: ids[0]},
		{ID: ids[1], Err: errors.New("timeout")},
		{ID: ids[2]},
	})

	if sent != 2 || failed != 1 {
		t.Fatalf("expected sent=2 failed=1, got sent=%d failed=%d", sent, failed)
	}

	for i, want := range []domain.Status{domain.StatusSent, domain.StatusFailed, domain.StatusSent} {
		m, _ := repo.GetByID(ctx, ids[i])
		if m.Status != want {
			t.Fatalf("message %d: expected %s, got %s", i, want, m.Status)
		}
	}

	failedMsg, _ := repo.GetByID(ctx, ids[1])
	if failedMsg.ErrorMessage == nil || *failedMsg.ErrorMessage != "timeout" {
		t.Fatal("expected failure reason persisted")
	}
}

// A persistence error for one message must not stop the rest from being
// finalized. MarkSentErr only trips the successful outcome; the failing
// outcome's MarkFailed must still run.
func TestFinalizer_PersistenceErrorIsIsolated(t *testing.T) {
	repo := repository.NewMockEmailRepository()
	ids := seedProcessing(t, repo, 2)
	repo.MarkSentErr = errors.New("store unreachable")

	f := worker.NewFinalizer(repo, zap.NewNop())
	sent, failed := f.Finalize(context.Background(), []worker.Outcome{
		{ID: ids[0]},
		{ID: ids[1], Err: errors.New("provider 500")},
	})

	if sent != 0 {
		t.Fatalf("expected sent=0 when MarkSent errors, got %d", sent)
	}
	if failed != 1 {
		t.Fatalf("expected the failed outcome still persisted, got failed=%d", failed)
	}
}

func TestFinalizer_Idempotent(t *testing.T) {
	repo := repository.NewMockEmailRepository()
	ids := seedProcessing(t, repo, 2)
	f := worker.NewFinalizer(repo, zap.NewNop())
	ctx := context.Background()

	outcomes := []worker.Outcome{
		{ID: ids[0]},
		{ID: ids[1], Err: errors.New("timeout")},
	}

	f.Finalize(ctx, outcomes)
	f.Finalize(ctx, outcomes) // repeated finalize of the same outcome set

	a, _ := repo.GetByID(ctx, ids[0])
	b, _ := repo.GetByID(ctx, ids[1])
	if a.Status != domain.StatusSent {
		t.Fatalf("second finalize changed sent row to %s", a.Status)
	}
	if b.Status != domain.StatusFailed {
		t.Fatalf("second finalize changed failed row to %s", b.Status)
	}
}
