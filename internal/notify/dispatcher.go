// Package notify drains the mail outbox. Commands only ever write jobs in
// their own transaction; delivery happens here, so a slow or failing SMTP
// relay never blocks an API request.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"quotedesk/internal/infra/mail"
	"quotedesk/internal/infra/repository"
)

const claimBatchSize = 20

type Dispatcher struct {
	pool      *pgxpool.Pool
	jobs      *repository.MailJobRepository
	sender    mail.Sender
	publicURL string
	interval  time.Duration
	done      chan struct{}
	stopped   chan struct{}
}

func NewDispatcher(pool *pgxpool.Pool, jobs *repository.MailJobRepository, sender mail.Sender, publicURL string, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		pool:      pool,
		jobs:      jobs,
		sender:    sender,
		publicURL: publicURL,
		interval:  interval,
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// Start launches the polling loop. Call Stop to drain and exit.
func (d *Dispatcher) Start() {
	go d.run()
}

func (d *Dispatcher) Stop() {
	close(d.done)
	<-d.stopped
}

func (d *Dispatcher) run() {
	defer close(d.stopped)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), d.interval)
			if err := d.dispatchOnce(ctx); err != nil {
				slog.Error("mail dispatch pass failed", "error", err)
			}
			cancel()
		}
	}
}

// dispatchOnce claims a batch under a row lock, delivers each job, and
// records the outcome in the same transaction. SKIP LOCKED keeps concurrent
// dispatchers from double-sending.
func (d *Dispatcher) dispatchOnce(ctx context.Context) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	claimed, err := d.jobs.ClaimPending(ctx, tx, claimBatchSize)
	if err != nil {
		return err
	}

	for _, job := range claimed {
		if err := d.deliver(ctx, job); err != nil {
			slog.Warn("mail delivery failed",
				"job_id", job.ID, "kind", job.Kind, "attempts", job.Attempts+1, "error", err)
			if err := d.jobs.MarkFailed(ctx, tx, job.ID); err != nil {
				return err
			}
			continue
		}
		if err := d.jobs.MarkSent(ctx, tx, job.ID); err != nil {
			return err
		}
		slog.Info("mail delivered", "job_id", job.ID, "kind", job.Kind, "recipient", job.Recipient)
	}

	return tx.Commit(ctx)
}

func (d *Dispatcher) deliver(ctx context.Context, job repository.MailJob) error {
	msg, err := mail.Render(job.Kind, job.Recipient, job.Payload, d.publicURL)
	if err != nil {
		return err
	}
	return d.sender.Send(ctx, msg)
}
