package favorite

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the favorites router mounted at /favorites
func Routes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Get("/", h.List)

	return r
}

// BranchRoutes registers the branch-scoped favorite toggle routes
func BranchRoutes(h *Handler, authMiddleware func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/{id}/favorite", h.Add)
			r.Delete("/{id}/favorite", h.Remove)
		})
	}
}
