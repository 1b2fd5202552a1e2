package services

import (
	"errors"
	"fmt"
)

// Business-rule rejections. All of them are detected before any write,
// so a rejected operation never leaves partial state behind.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrDiscountNotFound   = errors.New("discount not found")
	ErrPlanNotFound       = errors.New("service plan not found")
	ErrChargeTypeNotFound = errors.New("charge type not found")

	// ErrOutstandingCharges gates tariff payments: charges are settled
	// before the recurring tariff, enforced at the ledger boundary.
	ErrOutstandingCharges = errors.New("account has outstanding charges; settle charges before tariff payments")

	ErrNoPendingCharges  = errors.New("account has no pending charges")
	ErrAmountExceedsDebt = errors.New("amount exceeds total charge debt")

	ErrRolloverAlreadyExecuted = errors.New("annual rollover already executed for this year")

	ErrUnauthorized = errors.New("insufficient role for this operation")
)

// ValidationError carries a human-readable reason for malformed or
// inconsistent input. Money amounts inside Reason are always rendered in
// exact decimal form.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
