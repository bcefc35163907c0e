package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rapmue/festivalpos/internal/domain"
)

// Items maps product ID to quantity. Iteration order never affects
// totals; display order comes from the catalog.
type Items map[string]int

// LineItem is one resolved cart line: the product, how many of it, and
// the rounded line total.
type LineItem struct {
	Product  domain.Product
	Quantity int
	Total    decimal.Decimal
}

// LineItems resolves every cart entry against the catalog, in catalog
// order. A cart entry whose product is missing from the catalog means
// the cart is stale (the catalog was swapped underneath it); that is an
// error, never a silently skipped line.
func LineItems(items Items, catalog []domain.Product) ([]LineItem, error) {
	lines := make([]LineItem, 0, len(items))
	for _, p := range catalog {
		qty, ok := items[p.ID]
		if !ok {
			continue
		}
		total := p.Price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
		lines = append(lines, LineItem{Product: p, Quantity: qty, Total: total})
	}

	if len(lines) != len(items) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, firstMissing(items, catalog))
	}
	return lines, nil
}

// Total sums the resolved line totals, rounding each line and the grand
// total to two decimal places.
func Total(items Items, catalog []domain.Product) (decimal.Decimal, error) {
	lines, err := LineItems(items, catalog)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Total)
	}
	return total.Round(2), nil
}

func firstMissing(items Items, catalog []domain.Product) string {
	known := make(map[string]struct{}, len(catalog))
	for _, p := range catalog {
		known[p.ID] = struct{}{}
	}
	for id := range items {
		if _, ok := known[id]; !ok {
			return id
		}
	}
	return ""
}
