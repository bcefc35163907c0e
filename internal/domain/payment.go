package domain

import "strings"

// PaymentMethod identifies how a sale is settled.
type PaymentMethod string

const (
	PaymentNone  PaymentMethod = ""
	PaymentCash  PaymentMethod = "CASH"
	PaymentTwint PaymentMethod = "TWINT"
)

// NeedsTender reports whether the method requires a tendered amount and
// change computation before the sale can finish.
func (m PaymentMethod) NeedsTender() bool {
	return m == PaymentCash
}

func (m PaymentMethod) String() string {
	return string(m)
}

// ParsePaymentMethod maps user input onto a known method. "bar" is
// accepted as an alias for cash, matching the label on the terminal.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CASH", "BAR":
		return PaymentCash, true
	case "TWINT":
		return PaymentTwint, true
	default:
		return PaymentNone, false
	}
}
