package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/repository"
)

// Sweeper returns messages stuck in processing back to pending. A drain
// killed between claim and finalize (host execution limit, crash) strands
// its claimed rows; once they are older than the lease they are fair game
// again. The lease must comfortably exceed the longest plausible drain.
type Sweeper struct {
	repo     repository.EmailRepository
	lease    time.Duration
	interval time.Duration
	logger   *zap.Logger
}

func NewSweeper(
	repo repository.EmailRepository,
	lease time.Duration,
	interval time.Duration,
	logger *zap.Logger,
) *Sweeper {
	return &Sweeper{repo: repo, lease: lease, interval: interval, logger: logger}
}

// Run ticks every interval and releases any stale claims.
// Stops cleanly when ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweep worker started",
		zap.Duration("interval", s.interval),
		zap.Duration("lease", s.lease),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweep worker stopping")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	released, err := s.repo.ReleaseStale(ctx, s.lease)
	if err != nil {
		s.logger.Error("sweep error", zap.Error(err))
		return
	}
	if released > 0 {
		s.logger.Warn("released stale claims back to pending",
			zap.Int("count", released))
	}
}
