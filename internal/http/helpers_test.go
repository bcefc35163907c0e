package http

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rapmue/festivalpos/internal/cart"
	"github.com/rapmue/festivalpos/internal/catalog"
	"github.com/rapmue/festivalpos/internal/checkout"
	"github.com/rapmue/festivalpos/internal/domain"
	"github.com/rapmue/festivalpos/internal/settings"
)

// fetcherStub implements catalog.Fetcher for handler tests
type fetcherStub struct {
	products []domain.Product
	err      error
}

func (f *fetcherStub) Fetch(_ context.Context, _ string) ([]domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

type testEnv struct {
	fetcher  *fetcherStub
	store    settings.Store
	manager  *catalog.Manager
	cart     *cart.Store
	session  *checkout.Session
	catalogH *CatalogHandler
	cartH    *CartHandler
	checkout *CheckoutHandler
}

func testCatalog() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Coffee", Price: decimal.RequireFromString("3.50")},
		{ID: "p2", Name: "Cake", Price: decimal.RequireFromString("4.00")},
	}
}

// newTestEnv wires real core components behind the handlers; only the
// feed transport is stubbed.
func newTestEnv(t *testing.T, loadCatalog bool) *testEnv {
	t.Helper()

	fetcher := &fetcherStub{products: testCatalog()}
	store := settings.NewMemoryStore()
	manager, err := catalog.NewManager(context.Background(), store, fetcher)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	t.Cleanup(manager.Close)

	if loadCatalog {
		if errSet := manager.SetSourceURL(context.Background(), "https://feed.example/products.json"); errSet != nil {
			t.Fatalf("failed to set source url: %v", errSet)
		}
		if _, errRefresh := manager.Refresh(context.Background()); errRefresh != nil {
			t.Fatalf("failed to load catalog: %v", errRefresh)
		}
	}

	cartStore := cart.NewStore()
	session := checkout.NewSession()

	return &testEnv{
		fetcher:  fetcher,
		store:    store,
		manager:  manager,
		cart:     cartStore,
		session:  session,
		catalogH: NewCatalogHandler(manager, cartStore, 5*time.Second),
		cartH:    NewCartHandler(cartStore, manager),
		checkout: NewCheckoutHandler(session, cartStore, manager),
	}
}
