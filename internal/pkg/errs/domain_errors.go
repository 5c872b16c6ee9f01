package errs

import "errors"

// Sentinel errors shared across usecase layers.
var (
	// Quotation errors
	ErrQuotationNotFound     = errors.New("quotation not found")
	ErrQuotationAccessDenied = errors.New("quotation access denied")
	ErrNoItems               = errors.New("quotation requires at least one item")
	ErrAlreadyResponded      = errors.New("quotation already responded")
	ErrInvalidResponseStatus = errors.New("invalid response status")
	ErrInvalidAmount         = errors.New("invalid monetary amount")

	// User / auth errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenValidation    = errors.New("token validation failed")
	ErrTokenGeneration    = errors.New("token generation failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
