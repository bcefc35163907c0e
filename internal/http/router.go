package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the terminal's HTTP surface.
func NewRouter(catalogH *CatalogHandler, cartH *CartHandler, checkoutH *CheckoutHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", catalogH.Get)
			r.Post("/source", catalogH.SetSource)
			r.Post("/refresh", catalogH.Refresh)
			r.Post("/scan", catalogH.Scan)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartH.Get)
			r.Post("/items", cartH.AddItem)
			r.Put("/items/{product_id}", cartH.UpdateQuantity)
			r.Delete("/items/{product_id}", cartH.RemoveItem)
			r.Delete("/", cartH.Clear)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutH.Get)
			r.Post("/", checkoutH.Begin)
			r.Post("/payment", checkoutH.SelectPayment)
			r.Post("/tender", checkoutH.EnterTender)
			r.Post("/finish", checkoutH.Finish)
		})
	})

	return r
}
