//go:build unit

package commands_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/domain/user"
	"quotedesk/internal/infra"
	"quotedesk/internal/infra/db"
	"quotedesk/internal/usecase/queries"
	"quotedesk/internal/usecase/shared"
)

// Hand-written fakes standing in for the persistence layer: every write is
// recorded in memory so assertions can inspect exactly what a command did.

type fakeUoW struct {
	tx    *fakeTx
	reads *fakeCommandReads
}

func newFakeUoW() *fakeUoW {
	reads := &fakeCommandReads{
		usersByEmail: map[string]*shared.CredentialSnapshot{},
		usersByID:    map[uuid.UUID]*shared.CredentialSnapshot{},
		quotations:   map[uuid.UUID]*shared.QuotationSnapshot{},
	}
	return &fakeUoW{
		tx: &fakeTx{
			users:      &fakeUserRepo{},
			quotations: &fakeQuotationRepo{transitionOK: true, markSentOK: true},
			responses:  &fakeResponseRepo{},
			audits:     &fakeAuditRepo{},
			mailJobs:   &fakeMailJobRepo{},
			reads:      reads,
		},
		reads: reads,
	}
}

func (f *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, f.tx)
}

func (f *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (f *fakeUoW) CommandReads() shared.CommandReads { return f.reads }

type fakeTx struct {
	users      *fakeUserRepo
	quotations *fakeQuotationRepo
	responses  *fakeResponseRepo
	audits     *fakeAuditRepo
	mailJobs   *fakeMailJobRepo
	reads      *fakeCommandReads
}

func (t *fakeTx) Users() shared.UserRepository           { return t.users }
func (t *fakeTx) Quotations() shared.QuotationRepository { return t.quotations }
func (t *fakeTx) Responses() shared.ResponseRepository   { return t.responses }
func (t *fakeTx) AuditLogs() shared.AuditLogRepository   { return t.audits }
func (t *fakeTx) MailJobs() shared.MailJobRepository     { return t.mailJobs }
func (t *fakeTx) Reads() shared.CommandReads             { return t.reads }
func (t *fakeTx) DB() db.DBTX                            { return nil }

type fakeCommandReads struct {
	usersByEmail map[string]*shared.CredentialSnapshot
	usersByID    map[uuid.UUID]*shared.CredentialSnapshot
	quotations   map[uuid.UUID]*shared.QuotationSnapshot
}

func (r *fakeCommandReads) addUser(snap *shared.CredentialSnapshot) {
	r.usersByEmail[snap.Email] = snap
	r.usersByID[snap.ID] = snap
}

func (r *fakeCommandReads) QuotationByID(_ context.Context, id uuid.UUID) (*shared.QuotationSnapshot, error) {
	if snap, ok := r.quotations[id]; ok {
		return snap, nil
	}
	return nil, infra.WrapRepoErr("quotation not found", nil, infra.KindNotFound)
}

func (r *fakeCommandReads) UserByEmail(_ context.Context, email string) (*shared.CredentialSnapshot, error) {
	if snap, ok := r.usersByEmail[email]; ok {
		return snap, nil
	}
	return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
}

func (r *fakeCommandReads) UserByID(_ context.Context, id uuid.UUID) (*shared.CredentialSnapshot, error) {
	if snap, ok := r.usersByID[id]; ok {
		return snap, nil
	}
	return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
}

type storedToken struct {
	userID uuid.UUID
	token  string
}

type fakeUserRepo struct {
	createErr       error
	created         []*user.User
	refreshTokens   []storedToken
	clearedRefresh  []uuid.UUID
	resetTokens     []storedToken
	passwordUpdates []storedToken // token field carries the new hash
	redeemOK        bool
	redeemed        []storedToken
}

func (r *fakeUserRepo) Create(_ context.Context, _ db.DBTX, u *user.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, u)
	return nil
}

func (r *fakeUserRepo) StoreRefreshToken(_ context.Context, _ db.DBTX, userID uuid.UUID, token string, _ time.Time) error {
	r.refreshTokens = append(r.refreshTokens, storedToken{userID: userID, token: token})
	return nil
}

func (r *fakeUserRepo) ClearRefreshToken(_ context.Context, _ db.DBTX, userID uuid.UUID) error {
	r.clearedRefresh = append(r.clearedRefresh, userID)
	return nil
}

func (r *fakeUserRepo) StoreResetToken(_ context.Context, _ db.DBTX, userID uuid.UUID, token string) error {
	r.resetTokens = append(r.resetTokens, storedToken{userID: userID, token: token})
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, _ db.DBTX, userID uuid.UUID, hash string) error {
	r.passwordUpdates = append(r.passwordUpdates, storedToken{userID: userID, token: hash})
	return nil
}

func (r *fakeUserRepo) RedeemResetToken(_ context.Context, _ db.DBTX, userID uuid.UUID, hash, expectToken string) (bool, error) {
	if !r.redeemOK {
		return false, nil
	}
	r.redeemed = append(r.redeemed, storedToken{userID: userID, token: hash})
	return true, nil
}

type fakeQuotationRepo struct {
	created        []*quotation.Quotation
	replacedItems  []uuid.UUID
	replacedTotals []decimal.Decimal
	validityDates  []uuid.UUID
	deleted        []uuid.UUID
	transitionOK   bool
	transitions    []quotation.Status
	markSentOK     bool
	markedSent     []uuid.UUID
	expiredCount   int64
}

func (r *fakeQuotationRepo) Create(_ context.Context, _ db.DBTX, q *quotation.Quotation) error {
	r.created = append(r.created, q)
	return nil
}

func (r *fakeQuotationRepo) ReplaceItems(_ context.Context, _ db.DBTX, id uuid.UUID, _ []quotation.PricedItem, total decimal.Decimal) error {
	r.replacedItems = append(r.replacedItems, id)
	r.replacedTotals = append(r.replacedTotals, total)
	return nil
}

func (r *fakeQuotationRepo) UpdateValidityDate(_ context.Context, _ db.DBTX, id uuid.UUID, _ *time.Time) error {
	r.validityDates = append(r.validityDates, id)
	return nil
}

func (r *fakeQuotationRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeQuotationRepo) TransitionFromRespondable(_ context.Context, _ db.DBTX, _ uuid.UUID, to quotation.Status) (bool, error) {
	if !r.transitionOK {
		return false, nil
	}
	r.transitions = append(r.transitions, to)
	return true, nil
}

func (r *fakeQuotationRepo) MarkSent(_ context.Context, _ db.DBTX, id uuid.UUID) (bool, error) {
	if !r.markSentOK {
		return false, nil
	}
	r.markedSent = append(r.markedSent, id)
	return true, nil
}

func (r *fakeQuotationRepo) ExpireBefore(_ context.Context, _ db.DBTX, _ time.Time) (int64, error) {
	return r.expiredCount, nil
}

type fakeResponseRepo struct {
	inserted []shared.ResponseRecord
}

func (r *fakeResponseRepo) Insert(_ context.Context, _ db.DBTX, rec shared.ResponseRecord) error {
	r.inserted = append(r.inserted, rec)
	return nil
}

type fakeAuditRepo struct {
	entries []shared.AuditEntry
}

func (r *fakeAuditRepo) Insert(_ context.Context, _ db.DBTX, entry shared.AuditEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

type enqueuedJob struct {
	kind      string
	recipient string
	payload   []byte
}

type fakeMailJobRepo struct {
	jobs []enqueuedJob
}

func (r *fakeMailJobRepo) Enqueue(_ context.Context, _ db.DBTX, kind, recipient string, payload []byte) error {
	r.jobs = append(r.jobs, enqueuedJob{kind: kind, recipient: recipient, payload: payload})
	return nil
}

type fakeUserReadStore struct {
	views map[uuid.UUID]*queries.UserView
}

func (s *fakeUserReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.UserView, error) {
	if view, ok := s.views[id]; ok {
		return view, nil
	}
	return &queries.UserView{ID: id}, nil
}

type fakeQuotationReadStore struct {
	views       map[uuid.UUID]*queries.QuotationView
	publicViews map[uuid.UUID]*queries.PublicQuotationView
}

func (s *fakeQuotationReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.QuotationView, error) {
	if view, ok := s.views[id]; ok {
		return view, nil
	}
	return &queries.QuotationView{ID: id}, nil
}

func (s *fakeQuotationReadStore) FindPublicByID(_ context.Context, id uuid.UUID) (*queries.PublicQuotationView, error) {
	if view, ok := s.publicViews[id]; ok {
		return view, nil
	}
	return nil, infra.WrapRepoErr("quotation not found", nil, infra.KindNotFound)
}

func (s *fakeQuotationReadStore) ListByAdmin(_ context.Context, _ uuid.UUID, _, _ int32) ([]queries.QuotationListItem, error) {
	return nil, nil
}

func (s *fakeQuotationReadStore) CountByAdmin(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *fakeQuotationReadStore) StatusCounts(_ context.Context, _ uuid.UUID) (queries.StatusCounts, error) {
	return queries.StatusCounts{}, nil
}

func (s *fakeQuotationReadStore) Recent(_ context.Context, _ uuid.UUID, _ int32) ([]queries.QuotationListItem, error) {
	return nil, nil
}
