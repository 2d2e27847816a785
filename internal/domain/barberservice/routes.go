package barberservice

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/barberqueue/barberqueue-api/internal/middleware"
)

// Routes returns the service catalog router. Reads are public, writes require owner.
func Routes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireOwner())
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
