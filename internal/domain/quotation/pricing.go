package quotation

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrNegativeAmount  = errors.New("unit price and tax must not be negative")
)

// ItemSpec is the input to the pricing calculator: one quotation line as the
// admin entered it, with monetary fields already parsed into exact decimals.
type ItemSpec struct {
	Name        string
	Description string
	Quantity    int32
	UnitPrice   decimal.Decimal
	Tax         decimal.Decimal
}

// PricedItem is a line with its computed total, rounded to two decimal places.
type PricedItem struct {
	ItemSpec
	Total decimal.Decimal
}

// PriceItem computes quantity * unitPrice + tax using exact decimal
// arithmetic. Money never touches binary floating point.
func PriceItem(spec ItemSpec) (PricedItem, error) {
	if spec.Quantity <= 0 {
		return PricedItem{}, ErrInvalidQuantity
	}
	if spec.UnitPrice.IsNegative() || spec.Tax.IsNegative() {
		return PricedItem{}, ErrNegativeAmount
	}

	qty := decimal.NewFromInt32(spec.Quantity)
	total := qty.Mul(spec.UnitPrice).Add(spec.Tax).Round(2)

	return PricedItem{ItemSpec: spec, Total: total}, nil
}

// PriceItems prices every line and returns the exact grand total. The grand
// total is independent of item order.
func PriceItems(specs []ItemSpec) ([]PricedItem, decimal.Decimal, error) {
	priced := make([]PricedItem, 0, len(specs))
	grandTotal := decimal.Zero

	for _, spec := range specs {
		item, err := PriceItem(spec)
		if err != nil {
			return nil, decimal.Zero, err
		}
		priced = append(priced, item)
		grandTotal = grandTotal.Add(item.Total)
	}

	return priced, grandTotal.Round(2), nil
}

// FormatAmount renders a monetary decimal with exactly two decimal places,
// the representation persisted and shown to clients.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
