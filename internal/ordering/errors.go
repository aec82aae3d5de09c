package ordering

import "errors"

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidQuantity       = errors.New("quantity must be at least 1")
	ErrLineNotFound          = errors.New("cart line not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrCustomizationRequired = errors.New("item requires customization")
	ErrMissingRequiredChoice = errors.New("required customization not selected")
	ErrInvalidStaffCode      = errors.New("invalid staff code")
	ErrCheckoutNotStarted    = errors.New("no checkout in progress")
	ErrCheckoutInProgress    = errors.New("checkout already in progress")
	ErrInvalidPartySize      = errors.New("party size must be between 1 and 12")
	ErrNoActiveSession       = errors.New("no active tapas session")
)
