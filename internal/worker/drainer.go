package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/repository"
)

// MetricHooks carries the metric callback functions injected by main.
// Using a struct keeps the drainer constructor signature clean.
type MetricHooks struct {
	OnSent   func(msgType domain.MessageType)
	OnFailed func(msgType domain.MessageType)
	OnDrain  func(report Report, elapsed time.Duration)
}

// Report summarises one drain cycle.
type Report struct {
	Claimed int `json:"claimed"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

// Drainer runs the claim → dispatch → finalize pipeline. Each cycle is a
// short, self-contained invocation; overlapping cycles (ticker plus the
// on-demand endpoint, or several instances of this service) are safe
// because the claim itself is atomic — two cycles can never own the same
// message.
type Drainer struct {
	repo       repository.EmailRepository
	dispatcher *Dispatcher
	finalizer  *Finalizer
	batchSize  int
	interval   time.Duration
	logger     *zap.Logger
	hooks      MetricHooks
}

func NewDrainer(
	repo repository.EmailRepository,
	dispatcher *Dispatcher,
	finalizer *Finalizer,
	batchSize int,
	interval time.Duration,
	logger *zap.Logger,
	hooks MetricHooks,
) *Drainer {
	if hooks.OnSent == nil {
		hooks.OnSent = func(domain.MessageType) {}
	}
	if hooks.OnFailed == nil {
		hooks.OnFailed = func(domain.MessageType) {}
	}
	if hooks.OnDrain == nil {
		hooks.OnDrain = func(Report, time.Duration) {}
	}
	return &Drainer{
		repo:       repo,
		dispatcher: dispatcher,
		finalizer:  finalizer,
		batchSize:  batchSize,
		interval:   interval,
		logger:     logger,
		hooks:      hooks,
	}
}

// Run ticks every interval and drains one batch per tick.
// Stops cleanly when ctx is cancelled.
func (d *Drainer) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("drain worker started",
		zap.Duration("interval", d.interval),
		zap.Int("batch_size", d.batchSize),
	)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("drain worker stopping")
			return
		case <-ticker.C:
			if _, err := d.DrainOnce(ctx); err != nil {
				d.logger.Error("drain cycle error", zap.Error(err))
			}
		}
	}
}

// DrainOnce claims one batch, dispatches it, and finalizes the outcomes.
// It returns an error only when the claim itself fails — that is the one
// whole-batch setup failure; everything after the claim is handled at
// message granularity.
func (d *Drainer) DrainOnce(ctx context.Context) (Report, error) {
	start := time.Now()

	claimed, err := d.repo.ClaimPending(ctx, d.batchSize)
	if err != nil {
		return Report{}, fmt.Errorf("claim batch: %w", err)
	}
	if len(claimed) == 0 {
		return Report{}, nil
	}

	outcomes := d.dispatcher.Dispatch(ctx, claimed)

	byID := make(map[string]domain.MessageType, len(claimed))
	for _, m := range claimed {
		byID[m.ID] = m.Type
	}
	for _, o := range outcomes {
		if o.Err == nil {
			d.hooks.OnSent(byID[o.ID])
		} else {
			d.hooks.OnFailed(byID[o.ID])
		}
	}

	sent, failed := d.finalizer.Finalize(ctx, outcomes)

	report := Report{Claimed: len(claimed), Sent: sent, Failed: failed}
	elapsed := time.Since(start)
	d.hooks.OnDrain(report, elapsed)

	d.logger.Info("drain cycle complete",
		zap.Int("claimed", report.Claimed),
		zap.Int("sent", report.Sent),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", elapsed),
	)
	return report, nil
}
