package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the only currency the terminal handles.
const Currency = "CHF"

// Product is a catalog item. Products are immutable once fetched; the
// catalog manager owns them and the cart references them by ID only.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CatalogSource describes the active product feed: where it came from,
// when it was last fetched and the products it delivered. Exactly one
// source is active at a time.
type CatalogSource struct {
	URL           string    `json:"url"`
	LastFetchedAt time.Time `json:"last_fetched_at"`
	Products      []Product `json:"products"`
}
