package http

import (
	"encoding/json"
	"net/http"

	"github.com/rapmue/festivalpos/internal/cart"
	"github.com/rapmue/festivalpos/internal/catalog"
	"github.com/rapmue/festivalpos/internal/checkout"
	"github.com/rapmue/festivalpos/internal/domain"
)

// CheckoutHandler drives the checkout session from the shell's button
// presses: begin, pick a payment method, enter the tendered cash,
// finish. Finishing clears the cart and resets the session, matching
// the return to the catalog screen.
type CheckoutHandler struct {
	session *checkout.Session
	cart    *cart.Store
	catalog *catalog.Manager
}

func NewCheckoutHandler(session *checkout.Session, cartStore *cart.Store, manager *catalog.Manager) *CheckoutHandler {
	return &CheckoutHandler{
		session: session,
		cart:    cartStore,
		catalog: manager,
	}
}

type SelectPaymentRequestDTO struct {
	Method string `json:"method"`
}

type TenderRequestDTO struct {
	Amount string `json:"amount"`
}

type SessionResponse struct {
	Status    string  `json:"status"`
	Method    string  `json:"method,omitempty"`
	Total     string  `json:"total"`
	Tendered  *string `json:"tendered,omitempty"`
	ChangeDue *string `json:"change_due,omitempty"`
	Currency  string  `json:"currency"`
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	if h.cart.IsEmpty() {
		handleCoreError(w, checkout.ErrEmptyCart)
		return
	}

	total, err := cart.Total(h.cart.Snapshot(), h.catalog.Catalog())
	if err != nil {
		handleCoreError(w, err)
		return
	}

	if err := h.session.Begin(total); err != nil {
		handleCoreError(w, err)
		return
	}
	h.respondSession(w)
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respondSession(w)
}

func (h *CheckoutHandler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	var req SelectPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	method, ok := domain.ParsePaymentMethod(req.Method)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_request", "unknown payment method")
		return
	}

	if err := h.session.SelectPayment(method); err != nil {
		handleCoreError(w, err)
		return
	}
	h.respondSession(w)
}

func (h *CheckoutHandler) EnterTender(w http.ResponseWriter, r *http.Request) {
	var req TenderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.session.EnterTender(req.Amount); err != nil {
		handleCoreError(w, err)
		return
	}
	h.respondSession(w)
}

func (h *CheckoutHandler) Finish(w http.ResponseWriter, r *http.Request) {
	sale, err := h.session.Finish()
	if err != nil {
		handleCoreError(w, err)
		return
	}

	// the terminal event arrived: clear the cart, reset for the next
	// customer
	h.cart.Clear()
	h.session.Reset()

	respondJSON(w, http.StatusOK, sale)
}

func (h *CheckoutHandler) respondSession(w http.ResponseWriter) {
	resp := SessionResponse{
		Status:   h.session.Status().String(),
		Method:   h.session.Method().String(),
		Total:    h.session.Total().StringFixed(2),
		Currency: domain.Currency,
	}
	if t := h.session.Tendered(); t != nil {
		s := t.StringFixed(2)
		resp.Tendered = &s
	}
	if c := h.session.ChangeDue(); c != nil {
		s := c.StringFixed(2)
		resp.ChangeDue = &s
	}
	respondJSON(w, http.StatusOK, resp)
}
