package queries

import (
	"context"

	"github.com/google/uuid"

	"quotedesk/internal/infra"
	"quotedesk/internal/pkg/errs"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
	recentLimit      = 5
)

type QuotationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*QuotationView, error)
	FindPublicByID(ctx context.Context, id uuid.UUID) (*PublicQuotationView, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID, limit, offset int32) ([]QuotationListItem, error)
	CountByAdmin(ctx context.Context, adminID uuid.UUID) (int64, error)
	StatusCounts(ctx context.Context, adminID uuid.UUID) (StatusCounts, error)
	Recent(ctx context.Context, adminID uuid.UUID, limit int32) ([]QuotationListItem, error)
}

type QuotationQueries interface {
	GetQuotation(ctx context.Context, id, adminID uuid.UUID) (*QuotationView, error)
	ListForAdmin(ctx context.Context, adminID uuid.UUID, limit, offset int32) (*QuotationPage, error)
	DashboardStats(ctx context.Context, adminID uuid.UUID) (*DashboardStats, error)
}

type quotationQueriesImpl struct {
	readStore QuotationReadStore
}

func NewQuotationQueries(readStore QuotationReadStore) QuotationQueries {
	return &quotationQueriesImpl{readStore: readStore}
}

func (q *quotationQueriesImpl) GetQuotation(ctx context.Context, id, adminID uuid.UUID) (*QuotationView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrQuotationNotFound
		}
		return nil, err
	}

	// Ownership check before any content leaves the service.
	if view.AdminID != adminID {
		return nil, errs.ErrQuotationAccessDenied
	}

	return view, nil
}

// ListForAdmin is offset-paginated: the page and the count are two
// independent queries, each internally consistent. Under concurrent inserts
// they can momentarily disagree, which is acceptable for a dashboard read.
func (q *quotationQueriesImpl) ListForAdmin(ctx context.Context, adminID uuid.UUID, limit, offset int32) (*QuotationPage, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := q.readStore.ListByAdmin(ctx, adminID, limit, offset)
	if err != nil {
		return nil, err
	}

	count, err := q.readStore.CountByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	return &QuotationPage{Items: items, Count: count}, nil
}

func (q *quotationQueriesImpl) DashboardStats(ctx context.Context, adminID uuid.UUID) (*DashboardStats, error) {
	counts, err := q.readStore.StatusCounts(ctx, adminID)
	if err != nil {
		return nil, err
	}

	recent, err := q.readStore.Recent(ctx, adminID, recentLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{StatusCounts: counts, Recent: recent}, nil
}
