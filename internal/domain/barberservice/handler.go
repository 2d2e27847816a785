package barberservice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/barberqueue/barberqueue-api/internal/pkg/errorhandler"
	"github.com/barberqueue/barberqueue-api/internal/pkg/response"
	"github.com/barberqueue/barberqueue-api/internal/pkg/validator"
)

// Handler handles service catalog HTTP requests
type Handler struct {
	repo *Repository
}

// NewHandler creates service catalog handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /barber-services (owner only)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	now := time.Now()
	s := &Service{
		Name:      req.Name,
		Price:     req.Price,
		Duration:  req.Duration,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repo.Create(r.Context(), s); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "SERVICE_CREATE_FAILED", "Failed to create service", err)
		return
	}

	response.Created(w, s.ToResponse())
}

// GetByID handles GET /barber-services/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid service id")
		return
	}

	s, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "SERVICE_GET_FAILED", "Failed to get service", err)
		return
	}
	if s == nil {
		response.NotFound(w, "Service not found")
		return
	}

	response.OK(w, s.ToResponse())
}

// List handles GET /barber-services?page&limit
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	offset := (page - 1) * limit

	services, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "SERVICE_LIST_FAILED", "Failed to list services", err)
		return
	}

	total, err := h.repo.Count(r.Context())
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "SERVICE_COUNT_FAILED", "Failed to count services", err)
		return
	}

	items := make([]*ServiceResponse, len(services))
	for i := range services {
		items[i] = services[i].ToResponse()
	}

	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// Update handles PUT /barber-services/{id} (owner only)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid service id")
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

	s := &Service{
		ID:        id,
		Name:      req.Name,
		Price:     req.Price,
		Duration:  req.Duration,
		UpdatedAt: time.Now(),
	}
	if err := h.repo.Update(r.Context(), s); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Service not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "SERVICE_UPDATE_FAILED", "Failed to update service", err)
		return
	}

	updated, err := h.repo.GetByID(r.Context(), id)
	if err != nil || updated == nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "SERVICE_UPDATE_FAILED", "Failed to load updated service", err)
		return
	}

	response.OK(w, updated.ToResponse())
}

// Delete handles DELETE /barber-services/{id} (owner only)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid service id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Service not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "SERVICE_DELETE_FAILED", "Failed to delete service", err)
		return
	}

	response.NoContent(w)
}

func pageParams(r *http.Request) (page, limit int) {
	page, limit = 1, 20
	q := r.URL.Query()
	if p := q.Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	return page, limit
}
