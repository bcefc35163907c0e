package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapmue/festivalpos/internal/domain"
	"github.com/rapmue/festivalpos/internal/settings"
)

// MockFetcher implements Fetcher for testing
type MockFetcher struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	calls    int

	// when set, Fetch blocks until the channel is closed
	block chan struct{}
	// closed once a blocking Fetch has started
	started chan struct{}
}

func (f *MockFetcher) Fetch(_ context.Context, _ string) ([]domain.Product, error) {
	f.mu.Lock()
	f.calls++
	block, started := f.block, f.started
	f.mu.Unlock()

	if block != nil {
		if started != nil {
			close(started)
			f.mu.Lock()
			f.started = nil
			f.mu.Unlock()
		}
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *MockFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Coffee", Price: decimal.RequireFromString("3.50")},
		{ID: "p2", Name: "Cake", Price: decimal.RequireFromString("4.00")},
	}
}

func newTestManager(t *testing.T, fetcher Fetcher) (*Manager, settings.Store) {
	t.Helper()
	store := settings.NewMemoryStore()
	m, err := NewManager(context.Background(), store, fetcher)
	require.NoError(t, err)
	return m, store
}

func TestNewManager_LoadsSavedURL(t *testing.T) {
	store := settings.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "productUrl", "https://feed.example/products.json"))

	m, err := NewManager(context.Background(), store, &MockFetcher{})
	require.NoError(t, err)
	assert.Equal(t, "https://feed.example/products.json", m.SourceURL())
}

func TestNewManager_FirstLaunch(t *testing.T) {
	m, _ := newTestManager(t, &MockFetcher{})
	assert.Empty(t, m.SourceURL())
	assert.Empty(t, m.Catalog())
	assert.True(t, m.LastFetchedAt().IsZero())
}

func TestSetSourceURL_PersistsURL(t *testing.T) {
	m, store := newTestManager(t, &MockFetcher{})

	require.NoError(t, m.SetSourceURL(context.Background(), "https://feed.example/products.json"))

	saved, err := store.Get(context.Background(), "productUrl")
	require.NoError(t, err)
	assert.Equal(t, "https://feed.example/products.json", saved)
	// recording the URL does not fetch
	assert.Empty(t, m.Catalog())
}

func TestSetSourceURL_Invalid(t *testing.T) {
	m, store := newTestManager(t, &MockFetcher{})

	for _, raw := range []string{"", "   ", "not a url", "/relative/path", "ftp://feed.example/x"} {
		err := m.SetSourceURL(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, "input %q", raw)
	}

	_, err := store.Get(context.Background(), "productUrl")
	assert.ErrorIs(t, err, settings.ErrNotFound)
}

func TestRefresh_SwapsCatalog(t *testing.T) {
	fetcher := &MockFetcher{products: testProducts()}
	m, _ := newTestManager(t, fetcher)
	require.NoError(t, m.SetSourceURL(context.Background(), "https://feed.example/products.json"))

	products, err := m.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Len(t, m.Catalog(), 2)
	assert.False(t, m.LastFetchedAt().IsZero())
}

func TestRefresh_NoSourceConfigured(t *testing.T) {
	m, _ := newTestManager(t, &MockFetcher{})
	_, err := m.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestRefresh_FailureLeavesCatalogUntouched(t *testing.T) {
	fetcher := &MockFetcher{products: testProducts()}
	m, _ := newTestManager(t, fetcher)
	require.NoError(t, m.SetSourceURL(context.Background(), "https://feed.example/products.json"))
	_, err := m.Refresh(context.Background())
	require.NoError(t, err)

	before := m.Catalog()
	fetchedAt := m.LastFetchedAt()

	fetcher.mu.Lock()
	fetcher.err = ErrFetch
	fetcher.mu.Unlock()

	_, err = m.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrFetch)

	// refresh is all-or-nothing: the previous catalog and its
	// timestamp survive a failed fetch byte for byte
	assert.Equal(t, before, m.Catalog())
	assert.Equal(t, fetchedAt, m.LastFetchedAt())
}

func TestApplyScannedURL_HappyPath(t *testing.T) {
	fetcher := &MockFetcher{products: testProducts()}
	m, store := newTestManager(t, fetcher)

	products, err := m.ApplyScannedURL(context.Background(), "https://feed.example/products.json")
	require.NoError(t, err)
	assert.Len(t, products, 2)

	saved, err := store.Get(context.Background(), "productUrl")
	require.NoError(t, err)
	assert.Equal(t, "https://feed.example/products.json", saved)
}

func TestApplyScannedURL_InvalidPayload(t *testing.T) {
	fetcher := &MockFetcher{products: testProducts()}
	m, store := newTestManager(t, fetcher)
	require.NoError(t, m.SetSourceURL(context.Background(), "https://old.example/products.json"))
	_, err := m.Refresh(context.Background())
	require.NoError(t, err)

	_, err = m.ApplyScannedURL(context.Background(), "not a url")
	assert.ErrorIs(t, err, ErrInvalidURL)

	// stored URL and catalog unchanged
	saved, errGet := store.Get(context.Background(), "productUrl")
	require.NoError(t, errGet)
	assert.Equal(t, "https://old.example/products.json", saved)
	assert.Len(t, m.Catalog(), 2)
}

func TestApplyScannedURL_FetchFailureKeepsNewURLAndOldCatalog(t *testing.T) {
	fetcher := &MockFetcher{products: testProducts()}
	m, store := newTestManager(t, fetcher)
	require.NoError(t, m.SetSourceURL(context.Background(), "https://old.example/products.json"))
	_, err := m.Refresh(context.Background())
	require.NoError(t, err)

	fetcher.mu.Lock()
	fetcher.err = ErrFetch
	fetcher.mu.Unlock()

	_, err = m.ApplyScannedURL(context.Background(), "https://new.example/products.json")
	assert.ErrorIs(t, err, ErrFetch)

	// the URL is configuration and stays, so the user can retry; the
	// catalog is data and stays the old one
	assert.Equal(t, "https://new.example/products.json", m.SourceURL())
	saved, errGet := store.Get(context.Background(), "productUrl")
	require.NoError(t, errGet)
	assert.Equal(t, "https://new.example/products.json", saved)
	assert.Len(t, m.Catalog(), 2)
}

func TestRefresh_ConcurrentCallsCoalesce(t *testing.T) {
	fetcher := &MockFetcher{
		products: testProducts(),
		block:    make(chan struct{}),
		started:  make(chan struct{}),
	}
	m, _ := newTestManager(t, fetcher)
	require.NoError(t, m.SetSourceURL(context.Background(), "https://feed.example/products.json"))

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, results[0] = m.Refresh(context.Background())
	}()
	<-fetcher.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, results[1] = m.Refresh(context.Background())
	}()

	close(fetcher.block)
	wg.Wait()

	assert.NoError(t, results[0])
	assert.NoError(t, results[1])
	assert.Equal(t, 1, fetcher.Calls())
}

func TestSetSourceURL_RejectedWhileRefreshing(t *testing.T) {
	fetcher := &MockFetcher{
		products: testProducts(),
		block:    make(chan struct{}),
		started:  make(chan struct{}),
	}
	m, _ := newTestManager(t, fetcher)
	require.NoError(t, m.SetSourceURL(context.Background(), "https://feed.example/products.json"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = m.Refresh(context.Background())
	}()
	<-fetcher.started

	err := m.SetSourceURL(context.Background(), "https://other.example/products.json")
	assert.ErrorIs(t, err, ErrRefreshInProgress)

	close(fetcher.block)
	<-done
	assert.Len(t, m.Catalog(), 2)
}

func TestRefresh_DiscardedAfterClose(t *testing.T) {
	fetcher := &MockFetcher{
		products: testProducts(),
		block:    make(chan struct{}),
		started:  make(chan struct{}),
	}
	m, _ := newTestManager(t, fetcher)
	require.NoError(t, m.SetSourceURL(context.Background(), "https://feed.example/products.json"))

	errCh := make(chan error, 1)
	go func() {
		_, err := m.Refresh(context.Background())
		errCh <- err
	}()
	<-fetcher.started

	m.Close()
	close(fetcher.block)

	assert.ErrorIs(t, <-errCh, ErrClosed)
	assert.Empty(t, m.Catalog())
	assert.True(t, m.LastFetchedAt().IsZero())
}

func TestManager_OperationsAfterClose(t *testing.T) {
	m, _ := newTestManager(t, &MockFetcher{})
	m.Close()

	assert.ErrorIs(t, m.SetSourceURL(context.Background(), "https://feed.example/products.json"), ErrClosed)
	_, err := m.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}
