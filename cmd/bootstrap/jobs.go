package bootstrap

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"quotedesk/internal/infra/mail"
	"quotedesk/internal/infra/repository"
	"quotedesk/internal/jobs"
	"quotedesk/internal/notify"
	"quotedesk/internal/pkg/config"
)

// JobsModule wires the background workers: the mail outbox dispatcher and
// the daily quotation expiry sweep.
var JobsModule = fx.Module("jobs",
	fx.Provide(
		NewMailDispatcher,
		NewExpiryScheduler,
		jobs.NewExpirySweep,
	),
	fx.Invoke(
		startDispatcher,
		startScheduler,
	),
)

func NewMailDispatcher(pool *pgxpool.Pool, sender mail.Sender, cfg config.Config) *notify.Dispatcher {
	return notify.NewDispatcher(pool, repository.NewMailJobRepository(), sender, cfg.App.PublicURL, cfg.App.MailDispatchInterval)
}

func NewExpiryScheduler(sweep *jobs.ExpirySweep, cfg config.Config) (*jobs.Scheduler, error) {
	return jobs.NewScheduler(sweep, cfg.App.ExpirySchedule)
}

func startDispatcher(lc fx.Lifecycle, dispatcher *notify.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			dispatcher.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			dispatcher.Stop()
			return nil
		},
	})
}

func startScheduler(lc fx.Lifecycle, scheduler *jobs.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}
