package domain

// CheckoutStatus is the state of one checkout attempt.
type CheckoutStatus string

const (
	CheckoutStatusIdle            CheckoutStatus = "IDLE"
	CheckoutStatusAwaitingPayment CheckoutStatus = "AWAITING_PAYMENT"
	CheckoutStatusAwaitingTender  CheckoutStatus = "AWAITING_TENDER"
	// CheckoutStatusTenderEntered means the payment method is resolved
	// and the sale can finish. Methods without a tender step land here
	// directly from AWAITING_PAYMENT.
	CheckoutStatusTenderEntered CheckoutStatus = "TENDER_ENTERED"
	CheckoutStatusFinished      CheckoutStatus = "FINISHED"
)

var checkoutTransitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusIdle:            {CheckoutStatusAwaitingPayment},
	CheckoutStatusAwaitingPayment: {CheckoutStatusAwaitingTender, CheckoutStatusTenderEntered},
	CheckoutStatusAwaitingTender:  {CheckoutStatusTenderEntered},
	// TENDER_ENTERED -> TENDER_ENTERED lets the cashier correct a
	// mistyped amount before finishing.
	CheckoutStatusTenderEntered: {CheckoutStatusTenderEntered, CheckoutStatusFinished},
}

// CanTransitionTo reports whether moving from one status to another is a
// legal step of the checkout flow.
func CanTransitionTo(from, to CheckoutStatus) bool {
	for _, next := range checkoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusFinished
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}
