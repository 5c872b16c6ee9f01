package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/infra"
	"quotedesk/internal/infra/db"
	"quotedesk/internal/usecase/shared"
)

type QuotationRepository struct{}

func NewQuotationRepository() *QuotationRepository {
	return &QuotationRepository{}
}

var _ shared.QuotationRepository = (*QuotationRepository)(nil)

func (r *QuotationRepository) Create(ctx context.Context, dbtx db.DBTX, q *quotation.Quotation) error {
	const insertQuotation = `
		INSERT INTO quotations (id, admin_id, client_name, client_email, status, total_amount, validity_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := dbtx.Exec(ctx, insertQuotation,
		q.ID(),
		q.AdminID(),
		q.ClientName(),
		q.ClientEmail().Value(),
		q.Status().String(),
		q.TotalAmount(),
		q.ValidityDate(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("owning admin not found", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create quotation", err)
	}

	return r.insertItems(ctx, dbtx, q.ID(), q.Items())
}

// ReplaceItems implements the delete-all-then-recreate contract of quotation
// update, persisting the recomputed grand total in the same transaction.
func (r *QuotationRepository) ReplaceItems(ctx context.Context, dbtx db.DBTX, quotationID uuid.UUID, items []quotation.PricedItem, totalAmount decimal.Decimal) error {
	const deleteItems = `DELETE FROM quotation_items WHERE quotation_id = $1`

	if _, err := dbtx.Exec(ctx, deleteItems, quotationID); err != nil {
		return infra.WrapRepoErr("failed to delete quotation items", err)
	}

	if err := r.insertItems(ctx, dbtx, quotationID, items); err != nil {
		return err
	}

	const updateTotal = `
		UPDATE quotations SET total_amount = $2, updated_at = now() WHERE id = $1
	`

	tag, err := dbtx.Exec(ctx, updateTotal, quotationID, totalAmount)
	if err != nil {
		return infra.WrapRepoErr("failed to update quotation total", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("quotation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *QuotationRepository) insertItems(ctx context.Context, dbtx db.DBTX, quotationID uuid.UUID, items []quotation.PricedItem) error {
	const insertItem = `
		INSERT INTO quotation_items (id, quotation_id, item_name, description, quantity, unit_price, tax, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, item := range items {
		_, err := dbtx.Exec(ctx, insertItem,
			uuid.New(),
			quotationID,
			item.Name,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.Tax,
			item.Total,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert quotation item", err)
		}
	}
	return nil
}

func (r *QuotationRepository) UpdateValidityDate(ctx context.Context, dbtx db.DBTX, quotationID uuid.UUID, validityDate *time.Time) error {
	const query = `
		UPDATE quotations SET validity_date = $2, updated_at = now() WHERE id = $1
	`

	tag, err := dbtx.Exec(ctx, query, quotationID, validityDate)
	if err != nil {
		return infra.WrapRepoErr("failed to update validity date", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("quotation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *QuotationRepository) Delete(ctx context.Context, dbtx db.DBTX, quotationID uuid.UUID) error {
	// Items and responses go with it via ON DELETE CASCADE; audit rows keep
	// their copy of the id through ON DELETE SET NULL on the FK.
	const query = `DELETE FROM quotations WHERE id = $1`

	tag, err := dbtx.Exec(ctx, query, quotationID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete quotation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("quotation not found", nil, infra.KindNotFound)
	}
	return nil
}

// TransitionFromRespondable performs the status read and write as one atomic
// conditional update. Zero rows affected means the quotation already reached
// a terminal state and the caller must treat the response as refused.
func (r *QuotationRepository) TransitionFromRespondable(ctx context.Context, dbtx db.DBTX, quotationID uuid.UUID, to quotation.Status) (bool, error) {
	const query = `
		UPDATE quotations
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status IN ('PENDING', 'SENT')
	`

	tag, err := dbtx.Exec(ctx, query, quotationID, to.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to transition quotation status", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *QuotationRepository) MarkSent(ctx context.Context, dbtx db.DBTX, quotationID uuid.UUID) (bool, error) {
	const query = `
		UPDATE quotations
		SET status = 'SENT', updated_at = now()
		WHERE id = $1 AND status = 'PENDING'
	`

	tag, err := dbtx.Exec(ctx, query, quotationID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark quotation sent", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *QuotationRepository) ExpireBefore(ctx context.Context, dbtx db.DBTX, cutoff time.Time) (int64, error) {
	const query = `
		UPDATE quotations
		SET status = 'EXPIRED', updated_at = now()
		WHERE status IN ('PENDING', 'SENT') AND validity_date < $1
	`

	tag, err := dbtx.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to expire quotations", err)
	}
	return tag.RowsAffected(), nil
}
