package service

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrNotFound             = errors.New("cart item not found")
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrOrderCreationFailed  = errors.New("order creation failed")
	ErrInventoryUnavailable = errors.New("inventory unavailable")
	ErrCheckoutInProgress   = errors.New("another checkout is in progress")
)

// CheckoutError reports the state a checkout was in when it moved to Failed.
type CheckoutError struct {
	State CheckoutState
	Err   error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout failed while %s: %v", e.State, e.Err)
}

func (e *CheckoutError) Unwrap() error { return e.Err }
