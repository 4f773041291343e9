package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shiftbook/mailroom/internal/domain"
	"github.com/shiftbook/mailroom/internal/provider"
)

// Outcome records the delivery result for one claimed message.
// Err == nil means the provider accepted the message.
type Outcome struct {
	ID  string
	Err error
}

// Dispatcher fans a claimed batch out to the provider, one goroutine per
// message, and joins on all of them. One message's failure never aborts the
// rest of the batch and nothing is retried within a single dispatch —
// failed messages surface through their outcome and stay failed until an
// operator requeues them.
type Dispatcher struct {
	prov   provider.Provider
	pacer  *rate.Limiter
	logger *zap.Logger
}

// NewDispatcher builds a dispatcher. sendRate caps provider calls per
// second across the whole batch; burst 1 keeps sends evenly spaced.
func NewDispatcher(prov provider.Provider, sendRate int, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		prov:   prov,
		pacer:  rate.NewLimiter(rate.Limit(sendRate), 1),
		logger: logger,
	}
}

// Dispatch delivers every message concurrently and returns one outcome per
// input, in input order. It returns only after every delivery has settled.
func (d *Dispatcher) Dispatch(ctx context.Context, messages []*domain.EmailMessage) []Outcome {
	outcomes := make([]Outcome, len(messages))

	var wg sync.WaitGroup
	for i, m := range messages {
		wg.Add(1)
		go func(i int, m *domain.EmailMessage) {
			defer wg.Done()
			outcomes[i] = Outcome{ID: m.ID, Err: d.send(ctx, m)}
		}(i, m)
	}
	wg.Wait()

	return outcomes
}

func (d *Dispatcher) send(ctx context.Context, m *domain.EmailMessage) error {
	// Pace outbound calls so a large batch cannot hammer the provider.
	if err := d.pacer.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	result, err := d.prov.Send(ctx, m)
	if err != nil {
		d.logger.Warn("provider send failed",
			zap.String("message_id", m.ID),
			zap.String("type", string(m.Type)),
			zap.Error(err),
		)
		return err
	}

	d.logger.Info("email delivered",
		zap.String("message_id", m.ID),
		zap.String("provider_msg_id", result.MessageID),
		zap.Duration("latency", time.Since(start)),
	)
	return nil
}
