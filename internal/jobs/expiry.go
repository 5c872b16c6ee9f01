// Package jobs holds scheduled background work.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"quotedesk/internal/pkg/clock"
	"quotedesk/internal/pkg/errs"
	"quotedesk/internal/usecase/shared"
)

const sweepTimeout = time.Minute

// ExpirySweep flips stale respondable quotations to EXPIRED in one bulk
// conditional update. Running it twice over the same window is harmless.
type ExpirySweep struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewExpirySweep(uow shared.UnitOfWork, clk clock.Clock) *ExpirySweep {
	return &ExpirySweep{uow: uow, clock: clk}
}

func (s *ExpirySweep) Run(ctx context.Context) (int64, error) {
	var expired int64
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Quotations().ExpireBefore(ctx, tx.DB(), s.clock.Now())
		if err != nil {
			return err
		}
		expired = n
		return nil
	})
	if err != nil {
		return 0, errs.Wrap(err, "expiry sweep failed")
	}
	return expired, nil
}

// Scheduler wires the sweep onto a cron expression.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(sweep *ExpirySweep, schedule string) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		expired, err := sweep.Run(ctx)
		if err != nil {
			slog.Error("quotation expiry sweep failed", "error", err)
			return
		}
		slog.Info("quotation expiry sweep completed", "expired", expired)
	})
	if err != nil {
		return nil, errs.Wrap(err, "invalid expiry schedule")
	}

	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
