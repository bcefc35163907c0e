package cart

import "errors"

// Common errors returned by the cart
var (
	ErrUnknownProduct  = errors.New("cart references a product missing from the catalog")
	ErrItemNotFound    = errors.New("item not in cart")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)
