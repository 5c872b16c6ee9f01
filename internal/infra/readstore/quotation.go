package readstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/infra"
	"quotedesk/internal/infra/db"
	"quotedesk/internal/usecase/queries"
)

type QuotationReadStore struct {
	dbtx db.DBTX
}

func NewQuotationReadStore(dbtx db.DBTX) *QuotationReadStore {
	return &QuotationReadStore{dbtx: dbtx}
}

var _ queries.QuotationReadStore = (*QuotationReadStore)(nil)

func (s *QuotationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.QuotationView, error) {
	const query = `
		SELECT id, admin_id, client_name, client_email, status, total_amount, validity_date, created_at, updated_at
		FROM quotations
		WHERE id = $1
	`

	var view queries.QuotationView
	var total decimal.Decimal
	err := s.dbtx.QueryRow(ctx, query, id).Scan(
		&view.ID,
		&view.AdminID,
		&view.ClientName,
		&view.ClientEmail,
		&view.Status,
		&total,
		&view.ValidityDate,
		&view.CreatedAt,
		&view.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.WrapRepoErr("quotation not found", err, infra.KindNotFound)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find quotation", err)
	}
	view.TotalAmount = quotation.FormatAmount(total)

	view.Items, err = s.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}

	view.Responses, err = s.loadResponses(ctx, id)
	if err != nil {
		return nil, err
	}

	return &view, nil
}

func (s *QuotationReadStore) FindPublicByID(ctx context.Context, id uuid.UUID) (*queries.PublicQuotationView, error) {
	const query = `
		SELECT id, client_name, status, total_amount, validity_date, created_at
		FROM quotations
		WHERE id = $1
	`

	var view queries.PublicQuotationView
	var total decimal.Decimal
	err := s.dbtx.QueryRow(ctx, query, id).Scan(
		&view.ID,
		&view.ClientName,
		&view.Status,
		&total,
		&view.ValidityDate,
		&view.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.WrapRepoErr("quotation not found", err, infra.KindNotFound)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find quotation", err)
	}
	view.TotalAmount = quotation.FormatAmount(total)

	view.Items, err = s.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}

	view.LatestResponse, err = s.latestDecidedResponse(ctx, id)
	if err != nil {
		return nil, err
	}

	return &view, nil
}

func (s *QuotationReadStore) loadItems(ctx context.Context, quotationID uuid.UUID) ([]queries.QuotationItemView, error) {
	const query = `
		SELECT id, item_name, description, quantity, unit_price, tax, total_price
		FROM quotation_items
		WHERE quotation_id = $1
		ORDER BY created_at, id
	`

	rows, err := s.dbtx.Query(ctx, query, quotationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load quotation items", err)
	}
	defer rows.Close()

	items := []queries.QuotationItemView{}
	for rows.Next() {
		var item queries.QuotationItemView
		var unitPrice, tax, totalPrice decimal.Decimal
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Quantity, &unitPrice, &tax, &totalPrice); err != nil {
			return nil, infra.WrapRepoErr("failed to scan quotation item", err)
		}
		item.UnitPrice = quotation.FormatAmount(unitPrice)
		item.Tax = quotation.FormatAmount(tax)
		item.TotalPrice = quotation.FormatAmount(totalPrice)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read quotation items", err)
	}
	return items, nil
}

func (s *QuotationReadStore) loadResponses(ctx context.Context, quotationID uuid.UUID) ([]queries.ResponseView, error) {
	const query = `
		SELECT id, status, comment, client_ip, user_agent, created_at
		FROM quotation_responses
		WHERE quotation_id = $1
		ORDER BY created_at
	`

	rows, err := s.dbtx.Query(ctx, query, quotationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load quotation responses", err)
	}
	defer rows.Close()

	var responses []queries.ResponseView
	for rows.Next() {
		var resp queries.ResponseView
		if err := rows.Scan(&resp.ID, &resp.Status, &resp.Comment, &resp.ClientIP, &resp.UserAgent, &resp.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan quotation response", err)
		}
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read quotation responses", err)
	}
	return responses, nil
}

// latestDecidedResponse returns the newest APPROVED/REJECTED row; viewed
// markers (status PENDING) are not decisions.
func (s *QuotationReadStore) latestDecidedResponse(ctx context.Context, quotationID uuid.UUID) (*queries.ResponseView, error) {
	const query = `
		SELECT id, status, comment, client_ip, user_agent, created_at
		FROM quotation_responses
		WHERE quotation_id = $1 AND status IN ('APPROVED', 'REJECTED')
		ORDER BY created_at DESC
		LIMIT 1
	`

	var resp queries.ResponseView
	err := s.dbtx.QueryRow(ctx, query, quotationID).Scan(
		&resp.ID, &resp.Status, &resp.Comment, &resp.ClientIP, &resp.UserAgent, &resp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load latest response", err)
	}
	return &resp, nil
}

func (s *QuotationReadStore) ListByAdmin(ctx context.Context, adminID uuid.UUID, limit, offset int32) ([]queries.QuotationListItem, error) {
	const query = `
		SELECT id, client_name, client_email, status, total_amount, validity_date, created_at
		FROM quotations
		WHERE admin_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return s.scanListItems(ctx, query, adminID, limit, offset)
}

func (s *QuotationReadStore) Recent(ctx context.Context, adminID uuid.UUID, limit int32) ([]queries.QuotationListItem, error) {
	const query = `
		SELECT id, client_name, client_email, status, total_amount, validity_date, created_at
		FROM quotations
		WHERE admin_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	return s.scanListItems(ctx, query, adminID, limit)
}

func (s *QuotationReadStore) scanListItems(ctx context.Context, query string, args ...any) ([]queries.QuotationListItem, error) {
	rows, err := s.dbtx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list quotations", err)
	}
	defer rows.Close()

	items := []queries.QuotationListItem{}
	for rows.Next() {
		var item queries.QuotationListItem
		var total decimal.Decimal
		if err := rows.Scan(&item.ID, &item.ClientName, &item.ClientEmail, &item.Status, &total, &item.ValidityDate, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan quotation row", err)
		}
		item.TotalAmount = quotation.FormatAmount(total)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read quotation rows", err)
	}
	return items, nil
}

func (s *QuotationReadStore) CountByAdmin(ctx context.Context, adminID uuid.UUID) (int64, error) {
	const query = `SELECT count(*) FROM quotations WHERE admin_id = $1`

	var count int64
	if err := s.dbtx.QueryRow(ctx, query, adminID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count quotations", err)
	}
	return count, nil
}

// StatusCounts aggregates the dashboard counters in a single grouped query
// instead of one round trip per status.
func (s *QuotationReadStore) StatusCounts(ctx context.Context, adminID uuid.UUID) (queries.StatusCounts, error) {
	const query = `
		SELECT status, count(*)
		FROM quotations
		WHERE admin_id = $1
		GROUP BY status
	`

	rows, err := s.dbtx.Query(ctx, query, adminID)
	if err != nil {
		return queries.StatusCounts{}, infra.WrapRepoErr("failed to count quotations by status", err)
	}
	defer rows.Close()

	var counts queries.StatusCounts
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return queries.StatusCounts{}, infra.WrapRepoErr("failed to scan status count", err)
		}
		counts.Total += n
		switch quotation.Status(status) {
		case quotation.StatusPending:
			counts.Pending = n
		case quotation.StatusSent:
			counts.Sent = n
		case quotation.StatusApproved:
			counts.Approved = n
		case quotation.StatusRejected:
			counts.Rejected = n
		case quotation.StatusExpired:
			counts.Expired = n
		}
	}
	if err := rows.Err(); err != nil {
		return queries.StatusCounts{}, infra.WrapRepoErr("failed to read status counts", err)
	}
	return counts, nil
}

