// Package shop implements the order-side core: checkout (cart to order
// conversion) and discount code application/removal.
package shop

import (
	"errors"
	"fmt"
)

// Domain failures surfaced to the caller as the failure reason. They are
// caller/input errors and are never retried; persistence failures pass
// through untouched and untranslated.
var (
	ErrValidation       = errors.New("validation failed")
	ErrEmptyCart        = errors.New("there is no products in cart")
	ErrNotSalable       = errors.New("product is not a salable product")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCodeNotFound     = errors.New("discount code not found")
	ErrChatNotFound     = errors.New("chat not found")
	ErrCodeUsed         = errors.New("the code already has been used")
	ErrCodeApplied      = errors.New("a discount code is already applied to this order")
	ErrCodeExpired      = errors.New("the code is expired")
	ErrNoCodeApplied    = errors.New("no discount code applied to this order")
	ErrDivideByZero     = errors.New("cannot reverse a 100 percent discount")
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
	ErrChatClosed       = errors.New("the chat is closed")
	ErrDuplicate        = errors.New("a record with this data already exists")
)

// FieldRequired builds the validation error for a missing checkout field.
func FieldRequired(field string) error {
	return fmt.Errorf("%w: please provide %s", ErrValidation, field)
}
