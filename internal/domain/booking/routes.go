package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the booking router. Every endpoint requires authentication.
func Routes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Post("/", h.Create)
	r.Post("/services", h.AttachServices)
	r.Post("/{id}/status/{action}", h.ChangeStatus)
	r.Get("/history", h.History)
	r.Get("/{id}", h.GetByID)

	return r
}
