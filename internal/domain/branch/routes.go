package branch

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/barberqueue/barberqueue-api/internal/middleware"
)

// Routes returns the branch router. Reads are public, writes require owner.
// Extra registrations let branch-scoped routes from other domains (reviews,
// favorites) hang off /branches/{id} without an import cycle.
func Routes(h *Handler, photos *PhotoHandler, authMiddleware func(http.Handler) http.Handler, extras ...func(chi.Router)) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)

	for _, extra := range extras {
		extra(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireOwner())
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/photo", photos.Upload)
	})

	return r
}
