package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rapmue/festivalpos/internal/cart"
	"github.com/rapmue/festivalpos/internal/catalog"
	"github.com/rapmue/festivalpos/internal/checkout"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleCoreError maps the core's sentinel errors to HTTP status codes.
// Nothing here is fatal; every failure is recoverable by retrying the
// triggering operation.
func handleCoreError(w http.ResponseWriter, err error) {
	var httpStatus int
	var code string

	switch {
	case errors.Is(err, catalog.ErrInvalidURL):
		httpStatus = http.StatusBadRequest
		code = "invalid_url"
	case errors.Is(err, catalog.ErrFetch):
		httpStatus = http.StatusBadGateway
		code = "fetch_failed"
	case errors.Is(err, catalog.ErrRefreshInProgress):
		httpStatus = http.StatusConflict
		code = "refresh_in_progress"
	case errors.Is(err, catalog.ErrStaleRefresh):
		httpStatus = http.StatusConflict
		code = "refresh_superseded"
	case errors.Is(err, catalog.ErrClosed):
		httpStatus = http.StatusServiceUnavailable
		code = "shutting_down"
	case errors.Is(err, cart.ErrUnknownProduct):
		httpStatus = http.StatusConflict
		code = "stale_cart"
	case errors.Is(err, cart.ErrItemNotFound):
		httpStatus = http.StatusNotFound
		code = "item_not_found"
	case errors.Is(err, cart.ErrInvalidQuantity):
		httpStatus = http.StatusBadRequest
		code = "invalid_quantity"
	case errors.Is(err, checkout.ErrEmptyCart):
		httpStatus = http.StatusConflict
		code = "empty_cart"
	case errors.Is(err, checkout.ErrPaymentMethodUnavailable):
		httpStatus = http.StatusUnprocessableEntity
		code = "payment_method_unavailable"
	case errors.Is(err, checkout.ErrInvalidAmount):
		httpStatus = http.StatusBadRequest
		code = "invalid_amount"
	case errors.Is(err, checkout.ErrIncompleteCheckout):
		httpStatus = http.StatusConflict
		code = "incomplete_checkout"
	case errors.Is(err, checkout.ErrAlreadyFinished):
		httpStatus = http.StatusConflict
		code = "already_finished"
	case errors.Is(err, checkout.ErrIllegalTransition):
		httpStatus = http.StatusConflict
		code = "illegal_transition"
	default:
		httpStatus = http.StatusInternalServerError
		code = "internal_error"
	}

	respondError(w, httpStatus, code, err.Error())
}
