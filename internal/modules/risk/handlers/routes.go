package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all tail-risk routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/risk", func(r chi.Router) {
		r.Post("/tail", h.HandleTailRisk)
		r.Post("/report", h.HandleReport)
	})
}
