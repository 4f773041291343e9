package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/repository"
)

// Finalizer persists the terminal status for each dispatch outcome.
// Every message is finalized independently: a persistence error for one is
// logged and the loop moves on, mirroring the dispatcher's partial-failure
// discipline. The repository's conditional updates make a repeated
// finalize a no-op rather than a state regression.
type Finalizer struct {
	repo   repository.EmailRepository
	logger *zap.Logger
}

func NewFinalizer(repo repository.EmailRepository, logger *zap.Logger) *Finalizer {
	return &Finalizer{repo: repo, logger: logger}
}

// Finalize writes sent/failed per outcome and reports how many of each
// were recorded.
func (f *Finalizer) Finalize(ctx context.Context, outcomes []Outcome) (sent, failed int) {
	for _, o := range outcomes {
		if o.Err == nil {
			if err := f.repo.MarkSent(ctx, o.ID); err != nil {
				f.logger.Error("failed to mark message as sent",
					zap.String("message_id", o.ID), zap.Error(err))
				continue
			}
			sent++
			continue
		}

		if err := f.repo.MarkFailed(ctx, o.ID, o.Err.Error()); err != nil {
			f.logger.Error("failed to mark message as failed",
				zap.String("message_id", o.ID), zap.Error(err))
			continue
		}
		failed++
	}
	return sent, failed
}
