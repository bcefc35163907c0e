package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rapmue/festivalpos/internal/domain"
	"github.com/rapmue/festivalpos/internal/settings"
)

// sourceURLKey is the settings key the feed URL is persisted under.
const sourceURLKey = "productUrl"

// Manager owns the active catalog source: the configured feed URL and
// the last successfully fetched product set. The URL is configuration
// and is stored the moment it is set; the catalog is data and is only
// ever replaced by a fully successful fetch.
type Manager struct {
	settings settings.Store
	fetcher  Fetcher
	sfg      singleflight.Group // Coalesces concurrent refreshes

	mu          sync.RWMutex
	url         string
	products    []domain.Product
	lastFetched time.Time
	refreshing  bool
	closed      bool
}

// NewManager creates a manager and loads the previously saved feed URL,
// if any. The catalog itself is not persisted; it is re-fetched on the
// first refresh after launch.
func NewManager(ctx context.Context, store settings.Store, fetcher Fetcher) (*Manager, error) {
	m := &Manager{settings: store, fetcher: fetcher}

	saved, err := store.Get(ctx, sourceURLKey)
	switch {
	case err == nil:
		m.url = saved
	case errors.Is(err, settings.ErrNotFound):
		// first launch, no source configured yet
	default:
		return nil, fmt.Errorf("load saved source url: %w", err)
	}
	return m, nil
}

// SetSourceURL validates and records a new feed URL. It does not fetch;
// the catalog stays as it is until the next Refresh. While a refresh is
// running the URL cannot change underneath it.
func (m *Manager) SetSourceURL(ctx context.Context, raw string) error {
	if err := validateURL(raw); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.refreshing {
		return ErrRefreshInProgress
	}
	if err := m.settings.Set(ctx, sourceURLKey, raw); err != nil {
		return fmt.Errorf("persist source url: %w", err)
	}
	m.url = raw
	return nil
}

// Refresh fetches the product list from the configured URL and swaps it
// in as one atomic replacement. Concurrent calls coalesce onto the same
// in-flight fetch. A failed fetch leaves the active catalog and its
// fetch timestamp exactly as they were.
func (m *Manager) Refresh(ctx context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	closed, target := m.closed, m.url
	m.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	if target == "" {
		return nil, fmt.Errorf("%w: no source configured", ErrInvalidURL)
	}

	v, err, _ := m.sfg.Do(target, func() (interface{}, error) {
		m.setRefreshing(true)
		defer m.setRefreshing(false)

		products, errFetch := m.fetcher.Fetch(ctx, target)
		if errFetch != nil {
			return nil, errFetch
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed {
			// torn down while the fetch was in flight
			return nil, ErrClosed
		}
		if m.url != target {
			// a newer source was configured while this fetch ran; its
			// result must not stomp the newer configuration
			return nil, ErrStaleRefresh
		}
		m.products = products
		m.lastFetched = time.Now()
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// ApplyScannedURL handles a decoded QR payload: record the URL, then
// refresh. When the refresh fails the new URL is kept so the user can
// retry, but the active catalog stays the old one. URL is
// configuration, the catalog is data; only data is transactional
// against fetch success.
func (m *Manager) ApplyScannedURL(ctx context.Context, data string) ([]domain.Product, error) {
	if err := m.SetSourceURL(ctx, data); err != nil {
		return nil, err
	}
	return m.Refresh(ctx)
}

// Catalog returns a snapshot of the active product set. Callers observe
// either the fully-old or fully-new catalog, never a partial one.
func (m *Manager) Catalog() []domain.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot := make([]domain.Product, len(m.products))
	copy(snapshot, m.products)
	return snapshot
}

// SourceURL returns the currently configured feed URL.
func (m *Manager) SourceURL() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.url
}

// LastFetchedAt returns when the active catalog was fetched, or the
// zero time if no fetch has succeeded yet.
func (m *Manager) LastFetchedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastFetched
}

// Source returns the full state of the active catalog source.
func (m *Manager) Source() domain.CatalogSource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot := make([]domain.Product, len(m.products))
	copy(snapshot, m.products)
	return domain.CatalogSource{
		URL:           m.url,
		LastFetchedAt: m.lastFetched,
		Products:      snapshot,
	}
}

// Close tears the manager down. An in-flight refresh may still complete
// in the background; its result is discarded.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *Manager) setRefreshing(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshing = v
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: empty url", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	return nil
}
