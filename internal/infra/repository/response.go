package repository

import (
	"context"

	"github.com/google/uuid"

	"quotedesk/internal/infra"
	"quotedesk/internal/infra/db"
	"quotedesk/internal/usecase/shared"
)

type ResponseRepository struct{}

func NewResponseRepository() *ResponseRepository {
	return &ResponseRepository{}
}

var _ shared.ResponseRepository = (*ResponseRepository)(nil)

// Insert appends one row to the response trail. Rows are never updated or
// deleted while the quotation lives.
func (r *ResponseRepository) Insert(ctx context.Context, dbtx db.DBTX, rec shared.ResponseRecord) error {
	const query = `
		INSERT INTO quotation_responses (id, quotation_id, status, comment, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := dbtx.Exec(ctx, query,
		uuid.New(),
		rec.QuotationID,
		rec.Status.String(),
		rec.Comment,
		rec.ClientIP,
		rec.UserAgent,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("quotation not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to insert quotation response", err)
	}
	return nil
}
