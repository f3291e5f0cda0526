package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers hedging routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/hedging", func(r chi.Router) {
		r.Post("/rebalance", h.HandleRebalance)
		r.Get("/policy", h.HandleGetPolicy)
	})
}
