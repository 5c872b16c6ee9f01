package quotation

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quotedesk/internal/domain/user"
)

var ErrNoItems = errors.New("quotation requires at least one item")

// Quotation aggregate. Constructed through NewQuotation, which prices the
// items and fixes the invariant totalAmount == sum of item totals.
type Quotation struct {
	id           uuid.UUID
	adminID      uuid.UUID
	clientName   string
	clientEmail  user.Email
	status       Status
	items        []PricedItem
	totalAmount  decimal.Decimal
	validityDate *time.Time
}

func NewQuotation(adminID uuid.UUID, clientName string, clientEmail user.Email, validityDate *time.Time, specs []ItemSpec) (*Quotation, error) {
	if len(specs) == 0 {
		return nil, ErrNoItems
	}

	items, total, err := PriceItems(specs)
	if err != nil {
		return nil, err
	}

	return &Quotation{
		id:           uuid.New(),
		adminID:      adminID,
		clientName:   clientName,
		clientEmail:  clientEmail,
		status:       StatusPending,
		items:        items,
		totalAmount:  total,
		validityDate: validityDate,
	}, nil
}

func (q *Quotation) ID() uuid.UUID               { return q.id }
func (q *Quotation) AdminID() uuid.UUID          { return q.adminID }
func (q *Quotation) ClientName() string          { return q.clientName }
func (q *Quotation) ClientEmail() user.Email     { return q.clientEmail }
func (q *Quotation) Status() Status              { return q.status }
func (q *Quotation) Items() []PricedItem         { return q.items }
func (q *Quotation) TotalAmount() decimal.Decimal { return q.totalAmount }
func (q *Quotation) ValidityDate() *time.Time    { return q.validityDate }
