package address

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/barberqueue/barberqueue-api/internal/middleware"
	"github.com/barberqueue/barberqueue-api/internal/pkg/errorhandler"
	"github.com/barberqueue/barberqueue-api/internal/pkg/response"
	"github.com/barberqueue/barberqueue-api/internal/pkg/validator"
)

// Handler handles address HTTP requests
type Handler struct {
	repo *Repository
}

// NewHandler creates address handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// GetByID handles GET /addresses/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid address id")
		return
	}

	a, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "ADDRESS_GET_FAILED", "Failed to get address", err)
		return
	}
	if a == nil {
		response.NotFound(w, "Address not found")
		return
	}

	response.OK(w, a)
}

// GetMine handles GET /users/me/address
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	a, err := h.repo.GetByUserID(r.Context(), userID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "ADDRESS_GET_FAILED", "Failed to get address", err)
		return
	}
	if a == nil {
		response.NotFound(w, "Address not found")
		return
	}

	response.OK(w, a)
}

// Update handles PUT /addresses/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid address id")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	a := &Address{
		ID:        id,
		Text:      req.Text,
		Lat:       req.Lat,
		Lng:       req.Lng,
		UpdatedAt: time.Now(),
	}
	if err := h.repo.Update(r.Context(), a); err != nil {
		if err == ErrNotFound {
			response.NotFound(w, "Address not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "ADDRESS_UPDATE_FAILED", "Failed to update address", err)
		return
	}

	response.OK(w, a)
}

// Routes returns the address router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	return r
}
