package trade

import "errors"

var (
	ErrNotFound          = errors.New("transaction not found")
	ErrItemNotFound      = errors.New("item not found in cart")
	ErrMissingFields     = errors.New("missing required fields")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrDriverAssigned    = errors.New("driver already assigned")
	ErrInvalidDriver     = errors.New("user is not a driver")
	ErrNotOwner          = errors.New("transaction does not belong to user")
)
