package request

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/pkg/errs"
)

type QuotationItemRequest struct {
	Name        string `json:"item_name" binding:"required"`
	Description string `json:"description"`
	Quantity    int32  `json:"quantity" binding:"required,gt=0"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	Tax         string `json:"tax"`
}

func (r QuotationItemRequest) ToSpec() (quotation.ItemSpec, error) {
	unitPrice, err := decimal.NewFromString(r.UnitPrice)
	if err != nil {
		return quotation.ItemSpec{}, errs.ErrInvalidAmount
	}

	tax := decimal.Zero
	if strings.TrimSpace(r.Tax) != "" {
		tax, err = decimal.NewFromString(r.Tax)
		if err != nil {
			return quotation.ItemSpec{}, errs.ErrInvalidAmount
		}
	}

	return quotation.ItemSpec{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Quantity:    r.Quantity,
		UnitPrice:   unitPrice,
		Tax:         tax,
	}, nil
}

type CreateQuotationRequest struct {
	ClientName   string                 `json:"client_name" binding:"required"`
	ClientEmail  string                 `json:"client_email" binding:"required,email"`
	ValidityDate *time.Time             `json:"validity_date,omitempty"`
	Items        []QuotationItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r CreateQuotationRequest) ItemSpecs() ([]quotation.ItemSpec, error) {
	specs := make([]quotation.ItemSpec, 0, len(r.Items))
	for _, item := range r.Items {
		spec, err := item.ToSpec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// UpdateQuotationRequest replaces the whole item set when Items is present.
// Status is deliberately absent: it only moves through the public response
// flow, the send operation, and the expiry sweep.
type UpdateQuotationRequest struct {
	ValidityDate *time.Time             `json:"validity_date,omitempty"`
	Items        []QuotationItemRequest `json:"items,omitempty" binding:"omitempty,min=1,dive"`
}

func (r UpdateQuotationRequest) ItemSpecs() ([]quotation.ItemSpec, error) {
	if r.Items == nil {
		return nil, nil
	}
	specs := make([]quotation.ItemSpec, 0, len(r.Items))
	for _, item := range r.Items {
		spec, err := item.ToSpec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

type RespondRequest struct {
	Status  string  `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	Comment *string `json:"comment,omitempty"`
}
