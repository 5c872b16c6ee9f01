package repository

import (
	"context"

	"github.com/google/uuid"

	"quotedesk/internal/infra"
	"quotedesk/internal/infra/db"
	"quotedesk/internal/usecase/shared"
)

type AuditLogRepository struct{}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

var _ shared.AuditLogRepository = (*AuditLogRepository)(nil)

// Insert writes one trail row. quotation_ref keeps the id as a plain value
// so the entry survives quotation deletion; the FK column is nulled by the
// cascade instead.
func (r *AuditLogRepository) Insert(ctx context.Context, dbtx db.DBTX, entry shared.AuditEntry) error {
	const query = `
		INSERT INTO audit_logs (id, admin_id, quotation_id, quotation_ref, action, details)
		VALUES ($1, $2, $3, $3, $4, $5)
	`

	_, err := dbtx.Exec(ctx, query,
		uuid.New(),
		entry.AdminID,
		entry.QuotationID,
		entry.Action,
		entry.Details,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert audit log", err)
	}
	return nil
}
