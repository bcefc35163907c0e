package checkout

import "errors"

var (
	ErrEmptyCart                = errors.New("cart is empty, nothing to checkout")
	ErrPaymentMethodUnavailable = errors.New("payment method is not available on this terminal")
	ErrInvalidAmount            = errors.New("tendered amount is not a valid non-negative number")
	ErrIncompleteCheckout       = errors.New("checkout has no resolved payment method")
	ErrAlreadyFinished          = errors.New("checkout is already finished")
	ErrIllegalTransition        = errors.New("illegal transition of checkout status")
)
