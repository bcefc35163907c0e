package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/rapmue/festivalpos/internal/cart"
	"github.com/rapmue/festivalpos/internal/catalog"
	"github.com/rapmue/festivalpos/internal/domain"
)

// CatalogHandler exposes the catalog source: listing the active
// products, changing the feed URL by hand or from a scanned QR code,
// and triggering a refresh.
type CatalogHandler struct {
	manager *catalog.Manager
	cart    *cart.Store
	timeout time.Duration
}

func NewCatalogHandler(manager *catalog.Manager, cartStore *cart.Store, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		manager: manager,
		cart:    cartStore,
		timeout: timeout,
	}
}

type ProductResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type CatalogResponse struct {
	URL           string            `json:"url"`
	LastFetchedAt *time.Time        `json:"last_fetched_at,omitempty"`
	Currency      string            `json:"currency"`
	Products      []ProductResponse `json:"products"`
	// CartConflict is set when the live cart references products that
	// are no longer in the active catalog. The shell decides whether to
	// warn or clear; entries are never dropped silently.
	CartConflict bool `json:"cart_conflict,omitempty"`
}

type SetSourceRequestDTO struct {
	URL string `json:"url"`
}

type ScanRequestDTO struct {
	Data string `json:"data"`
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	source := h.manager.Source()
	respondJSON(w, http.StatusOK, h.catalogResponse(source))
}

func (h *CatalogHandler) SetSource(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SetSourceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.manager.SetSourceURL(ctx, req.URL); err != nil {
		handleCoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": h.manager.SourceURL()})
}

func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, err := h.manager.Refresh(ctx); err != nil {
		handleCoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.catalogResponse(h.manager.Source()))
}

// Scan receives the decoded payload of a QR code. On a fetch failure
// the shell navigates back; the new URL is already stored so the user
// can retry from settings.
func (h *CatalogHandler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ScanRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if _, err := h.manager.ApplyScannedURL(ctx, req.Data); err != nil {
		log.Printf("scan apply failed request_id=%s: %v", getRequestID(r.Context()), err)
		handleCoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.catalogResponse(h.manager.Source()))
}

func (h *CatalogHandler) catalogResponse(source domain.CatalogSource) CatalogResponse {
	products := make([]ProductResponse, len(source.Products))
	for i, p := range source.Products {
		products[i] = ProductResponse{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price.StringFixed(2),
		}
	}

	resp := CatalogResponse{
		URL:      source.URL,
		Currency: domain.Currency,
		Products: products,
	}
	if !source.LastFetchedAt.IsZero() {
		t := source.LastFetchedAt
		resp.LastFetchedAt = &t
	}
	if h.cart != nil {
		_, err := cart.LineItems(h.cart.Snapshot(), source.Products)
		resp.CartConflict = err != nil
	}
	return resp
}
