package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the terminal event emitted when a checkout finishes. Tendered
// and ChangeDue are only set for cash sales.
type Sale struct {
	ID         string           `json:"id"`
	Method     PaymentMethod    `json:"method"`
	Total      decimal.Decimal  `json:"total"`
	Tendered   *decimal.Decimal `json:"tendered,omitempty"`
	ChangeDue  *decimal.Decimal `json:"change_due,omitempty"`
	Currency   string           `json:"currency"`
	FinishedAt time.Time        `json:"finished_at"`
}
