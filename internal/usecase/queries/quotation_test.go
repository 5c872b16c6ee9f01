//go:build unit

package queries_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotedesk/internal/infra"
	"quotedesk/internal/pkg/errs"
	"quotedesk/internal/usecase/queries"
)

type fakeReadStore struct {
	views map[uuid.UUID]*queries.QuotationView
	items []queries.QuotationListItem

	lastLimit  int32
	lastOffset int32
}

func (f *fakeReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.QuotationView, error) {
	if v, ok := f.views[id]; ok {
		return v, nil
	}
	return nil, infra.WrapRepoErr("quotation not found", nil, infra.KindNotFound)
}

func (f *fakeReadStore) FindPublicByID(_ context.Context, _ uuid.UUID) (*queries.PublicQuotationView, error) {
	return nil, infra.WrapRepoErr("quotation not found", nil, infra.KindNotFound)
}

func (f *fakeReadStore) ListByAdmin(_ context.Context, _ uuid.UUID, limit, offset int32) ([]queries.QuotationListItem, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return f.items, nil
}

func (f *fakeReadStore) CountByAdmin(_ context.Context, _ uuid.UUID) (int64, error) {
	return int64(len(f.items)), nil
}

func (f *fakeReadStore) StatusCounts(_ context.Context, _ uuid.UUID) (queries.StatusCounts, error) {
	return queries.StatusCounts{Total: 3, Pending: 1, Approved: 1, Expired: 1}, nil
}

func (f *fakeReadStore) Recent(_ context.Context, _ uuid.UUID, limit int32) ([]queries.QuotationListItem, error) {
	if int(limit) < len(f.items) {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func TestGetQuotation(t *testing.T) {
	ownerID := uuid.New()
	quotationID := uuid.New()
	store := &fakeReadStore{views: map[uuid.UUID]*queries.QuotationView{
		quotationID: {ID: quotationID, AdminID: ownerID, ClientName: "Acme Corp"},
	}}
	q := queries.NewQuotationQueries(store)

	t.Run("owner reads own quotation", func(t *testing.T) {
		view, err := q.GetQuotation(context.Background(), quotationID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", view.ClientName)
	})

	t.Run("foreign admin is denied", func(t *testing.T) {
		_, err := q.GetQuotation(context.Background(), quotationID, uuid.New())
		assert.ErrorIs(t, err, errs.ErrQuotationAccessDenied)
	})

	t.Run("missing quotation", func(t *testing.T) {
		_, err := q.GetQuotation(context.Background(), uuid.New(), ownerID)
		assert.ErrorIs(t, err, errs.ErrQuotationNotFound)
	})
}

func TestListForAdmin(t *testing.T) {
	adminID := uuid.New()
	store := &fakeReadStore{items: []queries.QuotationListItem{
		{ID: uuid.New()}, {ID: uuid.New()},
	}}
	q := queries.NewQuotationQueries(store)

	cases := []struct {
		name       string
		limit      int32
		offset     int32
		wantLimit  int32
		wantOffset int32
	}{
		{name: "defaults applied", limit: 0, offset: -3, wantLimit: queries.DefaultListLimit, wantOffset: 0},
		{name: "limit clamped", limit: 10_000, offset: 20, wantLimit: queries.MaxListLimit, wantOffset: 20},
		{name: "passthrough", limit: 25, offset: 50, wantLimit: 25, wantOffset: 50},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			page, err := q.ListForAdmin(context.Background(), adminID, c.limit, c.offset)
			require.NoError(t, err)
			assert.Equal(t, c.wantLimit, store.lastLimit)
			assert.Equal(t, c.wantOffset, store.lastOffset)
			assert.Equal(t, int64(2), page.Count)
			assert.Len(t, page.Items, 2)
		})
	}
}

func TestDashboardStats(t *testing.T) {
	store := &fakeReadStore{items: make([]queries.QuotationListItem, 8)}
	q := queries.NewQuotationQueries(store)

	stats, err := q.DashboardStats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Expired)
	assert.Len(t, stats.Recent, 5)
}
