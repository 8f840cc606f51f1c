package market

import "errors"

// Errors surfaced by the transaction core. Validation failures are detected
// before any store call; storage failures are wrapped and passed through.
var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrUnknownPromoCode  = errors.New("promo code not recognized")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrActiveOrderExists = errors.New("an active order already exists for this product")
	ErrNotPermitted      = errors.New("operation not permitted for this user")

	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailExists      = errors.New("email already exists")
)
