package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/premaicommerce/hypestorefront/internal/middleware"
)

func NewRouter(h *Handler, corsAllowOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recover(h.logger))
	r.Use(chimiddleware.Logger)
	r.Use(middleware.CORS(corsAllowOrigins))
	r.Use(middleware.CorrelationID)

	r.Get("/health", h.Health)

	r.Route("/store", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/categories/{handle}", h.GetCategory)

		// Cart routes need the session cookie.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session)
			r.Get("/cart", h.GetCart)
			r.Get("/cart/lines/{variantId}", h.GetLine)
			r.Post("/cart/lines/{variantId}/increment", h.IncrementLine)
			r.Post("/cart/lines/{variantId}/decrement", h.DecrementLine)
		})
	})

	return r
}
