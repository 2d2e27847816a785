package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/barberqueue/barberqueue-api/internal/middleware"
)

// Routes returns the review router mounted at /reviews. Branch-scoped reads
// are registered on the branch router via BranchRoutes.
func Routes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireClient())
		r.Post("/", h.Create)
	})

	return r
}

// BranchRoutes registers the public branch-scoped review reads
func BranchRoutes(h *Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/{id}/reviews", h.ListByBranch)
		r.Get("/{id}/reviews/summary", h.SummaryByBranch)
	}
}
