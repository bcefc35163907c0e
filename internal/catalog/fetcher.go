package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/rapmue/festivalpos/internal/domain"
)

// maxFeedBytes caps the response body; a product feed is a few KB.
const maxFeedBytes = 1 << 20

// Fetcher loads the product list behind a catalog source URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]domain.Product, error)
}

// HTTPFetcher fetches a JSON product feed over HTTP. Repeated failures
// trip a circuit breaker so a dead feed host is not hammered on every
// retry tap.
type HTTPFetcher struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]domain.Product]
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[[]domain.Product](gobreaker.Settings{
			Name:    "catalog-feed",
			Timeout: 15 * time.Second,
		}),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]domain.Product, error) {
	products, err := f.breaker.Execute(func() ([]domain.Product, error) {
		return f.fetch(ctx, url)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, url string) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrFetch, resp.Status)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes))
	dec.UseNumber()
	var payload []productPayload
	if errDecode := dec.Decode(&payload); errDecode != nil {
		return nil, fmt.Errorf("%w: invalid feed: %v", ErrFetch, errDecode)
	}

	return parseProducts(payload)
}

// productPayload is the wire schema of one feed entry. Price stays a
// json.Number until it is parsed into a decimal, so feed amounts never
// pass through binary floating point.
type productPayload struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}

func parseProducts(payload []productPayload) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(payload))
	for i, p := range payload {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: product %d has no id", ErrFetch, i)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("%w: product %q has no name", ErrFetch, p.ID)
		}
		price, err := decimal.NewFromString(p.Price.String())
		if err != nil {
			return nil, fmt.Errorf("%w: product %q has no valid price", ErrFetch, p.ID)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("%w: product %q has a negative price", ErrFetch, p.ID)
		}
		products = append(products, domain.Product{ID: p.ID, Name: p.Name, Price: price})
	}
	return products, nil
}
