package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/barberqueue/barberqueue-api/internal/middleware"
)

// Routes returns auth router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public routes
	r.Post("/register/client", h.RegisterClient)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
		r.With(middleware.RequireOwner()).Post("/register/staff", h.RegisterStaff)
	})

	return r
}
