package api

import (
	"errors"

	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/domain/user"
	"quotedesk/internal/pkg/errs"
)

// isValidationError collects the domain-level input rejections that map to a
// 400 rather than a 500.
func isValidationError(err error) bool {
	return errors.Is(err, user.ErrInvalidEmail) ||
		errors.Is(err, user.ErrInvalidName) ||
		errors.Is(err, user.ErrPasswordTooWeak) ||
		errors.Is(err, quotation.ErrNoItems) ||
		errors.Is(err, quotation.ErrInvalidQuantity) ||
		errors.Is(err, quotation.ErrNegativeAmount) ||
		errors.Is(err, quotation.ErrInvalidResponseStatus) ||
		errors.Is(err, errs.ErrInvalidAmount)
}
