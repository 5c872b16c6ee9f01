package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quotedesk/internal/infra"
	"quotedesk/internal/infra/db"
	"quotedesk/internal/usecase/shared"
)

// Mail outbox. Jobs are enqueued transactionally with the mutation that
// caused them and drained by the dispatcher outside any request.

type MailJobRepository struct{}

func NewMailJobRepository() *MailJobRepository {
	return &MailJobRepository{}
}

var _ shared.MailJobRepository = (*MailJobRepository)(nil)

func (r *MailJobRepository) Enqueue(ctx context.Context, dbtx db.DBTX, kind, recipient string, payload []byte) error {
	const query = `
		INSERT INTO mail_jobs (id, kind, recipient, payload, status)
		VALUES ($1, $2, $3, $4, 'pending')
	`

	if _, err := dbtx.Exec(ctx, query, uuid.New(), kind, recipient, payload); err != nil {
		return infra.WrapRepoErr("failed to enqueue mail job", err)
	}
	return nil
}

type MailJob struct {
	ID        uuid.UUID
	Kind      string
	Recipient string
	Payload   []byte
	Attempts  int32
	CreatedAt time.Time
}

// ClaimPending locks a batch of deliverable jobs for one dispatcher pass.
// SKIP LOCKED keeps concurrent dispatchers from double-sending.
func (r *MailJobRepository) ClaimPending(ctx context.Context, dbtx db.DBTX, limit int32) ([]MailJob, error) {
	const query = `
		SELECT id, kind, recipient, payload, attempts, created_at
		FROM mail_jobs
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`

	rows, err := dbtx.Query(ctx, query, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim mail jobs", err)
	}
	defer rows.Close()

	var jobs []MailJob
	for rows.Next() {
		var job MailJob
		if err := rows.Scan(&job.ID, &job.Kind, &job.Recipient, &job.Payload, &job.Attempts, &job.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan mail job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read mail jobs", err)
	}
	return jobs, nil
}

func (r *MailJobRepository) MarkSent(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	const query = `
		UPDATE mail_jobs
		SET status = 'sent', attempts = attempts + 1, sent_at = now()
		WHERE id = $1
	`

	if _, err := dbtx.Exec(ctx, query, id); err != nil {
		return infra.WrapRepoErr("failed to mark mail job sent", err)
	}
	return nil
}

const maxMailAttempts = 5

// MarkFailed bumps the attempt count; the job stays pending for a later pass
// until maxMailAttempts is reached.
func (r *MailJobRepository) MarkFailed(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	const query = `
		UPDATE mail_jobs
		SET attempts = attempts + 1,
		    status = CASE WHEN attempts + 1 >= $2 THEN 'failed' ELSE 'pending' END
		WHERE id = $1
	`

	if _, err := dbtx.Exec(ctx, query, id, maxMailAttempts); err != nil {
		return infra.WrapRepoErr("failed to mark mail job failed", err)
	}
	return nil
}
