package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rapmue/festivalpos/internal/cart"
	"github.com/rapmue/festivalpos/internal/catalog"
	"github.com/rapmue/festivalpos/internal/domain"
)

// CartHandler exposes the live cart. Prices are resolved against the
// active catalog on every read; the cart itself stores only product IDs
// and quantities.
type CartHandler struct {
	store   *cart.Store
	catalog *catalog.Manager
}

func NewCartHandler(store *cart.Store, manager *catalog.Manager) *CartHandler {
	return &CartHandler{
		store:   store,
		catalog: manager,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type LineItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type CartResponse struct {
	Lines    []LineItemResponse `json:"lines"`
	Total    string             `json:"total"`
	Currency string             `json:"currency"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must not be empty")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}
	if !h.inCatalog(req.ProductID) {
		respondError(w, http.StatusNotFound, "unknown_product", "product is not in the active catalog")
		return
	}

	if err := h.store.AddItem(req.ProductID, req.Quantity); err != nil {
		handleCoreError(w, err)
		return
	}
	h.respondCart(w)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.store.SetQuantity(productID, req.Quantity); err != nil {
		handleCoreError(w, err)
		return
	}
	h.respondCart(w)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	if err := h.store.RemoveItem(productID); err != nil {
		handleCoreError(w, err)
		return
	}
	h.respondCart(w)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	h.respondCart(w)
}

func (h *CartHandler) respondCart(w http.ResponseWriter) {
	items := h.store.Snapshot()
	products := h.catalog.Catalog()

	lines, err := cart.LineItems(items, products)
	if err != nil {
		handleCoreError(w, err)
		return
	}
	total, err := cart.Total(items, products)
	if err != nil {
		handleCoreError(w, err)
		return
	}

	resp := CartResponse{
		Lines:    make([]LineItemResponse, len(lines)),
		Total:    total.StringFixed(2),
		Currency: domain.Currency,
	}
	for i, line := range lines {
		resp.Lines[i] = LineItemResponse{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price.StringFixed(2),
			LineTotal: line.Total.StringFixed(2),
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) inCatalog(productID string) bool {
	for _, p := range h.catalog.Catalog() {
		if p.ID == productID {
			return true
		}
	}
	return false
}
