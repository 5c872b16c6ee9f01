package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/domain/user"
	"quotedesk/internal/infra/db"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Users() UserRepository
	Quotations() QuotationRepository
	Responses() ResponseRepository
	AuditLogs() AuditLogRepository
	MailJobs() MailJobRepository
	Reads() CommandReads
	DB() db.DBTX
}

// CommandReads are the minimal row snapshots commands need for precondition
// checks, separate from the full read models the query side assembles.
type CommandReads interface {
	QuotationByID(ctx context.Context, id uuid.UUID) (*QuotationSnapshot, error)
	UserByEmail(ctx context.Context, email string) (*CredentialSnapshot, error)
	UserByID(ctx context.Context, id uuid.UUID) (*CredentialSnapshot, error)
}

type QuotationSnapshot struct {
	ID           uuid.UUID
	AdminID      uuid.UUID
	ClientName   string
	ClientEmail  string
	Status       quotation.Status
	TotalAmount  decimal.Decimal
	ValidityDate *time.Time
}

// CredentialSnapshot carries the persisted credential row, including the
// single active refresh/reset token values the rotation checks compare
// against. It never leaves the usecase layer.
type CredentialSnapshot struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	RefreshToken *string
	ResetToken   *string
}

type UserRepository interface {
	Create(ctx context.Context, db db.DBTX, u *user.User) error
	StoreRefreshToken(ctx context.Context, db db.DBTX, userID uuid.UUID, refreshToken string, lastLogin time.Time) error
	ClearRefreshToken(ctx context.Context, db db.DBTX, userID uuid.UUID) error
	StoreResetToken(ctx context.Context, db db.DBTX, userID uuid.UUID, resetToken string) error
	UpdatePassword(ctx context.Context, db db.DBTX, userID uuid.UUID, passwordHash string) error
	// RedeemResetToken replaces the password hash only when the stored reset
	// token still equals expectToken, clearing it in the same statement.
	// Returns false when the token was already consumed or superseded.
	RedeemResetToken(ctx context.Context, db db.DBTX, userID uuid.UUID, passwordHash, expectToken string) (bool, error)
}

type QuotationRepository interface {
	Create(ctx context.Context, db db.DBTX, q *quotation.Quotation) error
	ReplaceItems(ctx context.Context, db db.DBTX, quotationID uuid.UUID, items []quotation.PricedItem, totalAmount decimal.Decimal) error
	UpdateValidityDate(ctx context.Context, db db.DBTX, quotationID uuid.UUID, validityDate *time.Time) error
	Delete(ctx context.Context, db db.DBTX, quotationID uuid.UUID) error
	// TransitionFromRespondable is the single synchronization point of the
	// client response workflow: one conditional UPDATE guarded on the
	// respondable statuses, reporting whether a row was affected.
	TransitionFromRespondable(ctx context.Context, db db.DBTX, quotationID uuid.UUID, to quotation.Status) (bool, error)
	// MarkSent flips PENDING to SENT when the quotation is mailed out.
	MarkSent(ctx context.Context, db db.DBTX, quotationID uuid.UUID) (bool, error)
	// ExpireBefore bulk-expires respondable quotations whose validity date
	// passed, returning the number of rows flipped.
	ExpireBefore(ctx context.Context, db db.DBTX, cutoff time.Time) (int64, error)
}

type ResponseRecord struct {
	QuotationID uuid.UUID
	Status      quotation.Status
	Comment     *string
	ClientIP    *string
	UserAgent   *string
}

type ResponseRepository interface {
	Insert(ctx context.Context, db db.DBTX, rec ResponseRecord) error
}

type AuditEntry struct {
	AdminID     uuid.UUID
	QuotationID uuid.UUID
	Action      string
	Details     string
}

type AuditLogRepository interface {
	Insert(ctx context.Context, db db.DBTX, entry AuditEntry) error
}

// MailJobRepository is the outbox: jobs are enqueued inside the transaction
// of the mutation that triggered them and drained by the dispatcher.
type MailJobRepository interface {
	Enqueue(ctx context.Context, db db.DBTX, kind, recipient string, payload []byte) error
}
