package branch

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/barberqueue/barberqueue-api/internal/middleware"
	"github.com/barberqueue/barberqueue-api/internal/pkg/errorhandler"
	"github.com/barberqueue/barberqueue-api/internal/pkg/response"
	"github.com/barberqueue/barberqueue-api/internal/pkg/validator"
)

// AddressCreator creates the branch location row
type AddressCreator interface {
	CreateAddress(ctx context.Context, text string, lat, lng float64) (int64, error)
}

// Handler handles branch HTTP requests
type Handler struct {
	repo      *Repository
	addresses AddressCreator
}

// NewHandler creates branch handler
func NewHandler(repo *Repository, addresses AddressCreator) *Handler {
	return &Handler{repo: repo, addresses: addresses}
}

// Create handles POST /branches (owner only)
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
	b := &Branch{
		OwnerID:   middleware.GetUserID(r.Context()),
		Name:      req.Name,
		Phone:     sql.NullString{String: req.Phone, Valid: req.Phone != ""},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.Address != nil {
		addressID, err := h.addresses.CreateAddress(r.Context(), req.Address.Text, req.Address.Lat, req.Address.Lng)
		if err != nil {
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BRANCH_CREATE_FAILED", "Failed to create branch address", err)
			return
		}
		b.AddressID = sql.NullInt64{Int64: addressID, Valid: true}
	}

	if err := h.repo.Create(r.Context(), b); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BRANCH_CREATE_FAILED", "Failed to create branch", err)
		return
	}

	response.Created(w, b.ToResponse())
}

// GetByID handles GET /branches/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid branch id")
		return
	}

	b, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BRANCH_GET_FAILED", "Failed to get branch", err)
		return
	}
	if b == nil {
		response.NotFound(w, "Branch not found")
		return
	}

	response.OK(w, b.ToResponse())
}

// List handles GET /branches?page&limit
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	offset := (page - 1) * limit

	branches, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BRANCH_LIST_FAILED", "Failed to list branches", err)
		return
	}

	total, err := h.repo.Count(r.Context())
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BRANCH_COUNT_FAILED", "Failed to count branches", err)
		return
	}

	items := make([]*BranchResponse, len(branches))
	for i := range branches {
		items[i] = branches[i].ToResponse()
	}

	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// Update handles PUT /branches/{id} (owner only)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid branch id")
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

	b := &Branch{
		ID:        id,
		Name:      req.Name,
		Phone:     sql.NullString{String: req.Phone, Valid: req.Phone != ""},
		UpdatedAt: time.Now(),
	}
	if err := h.repo.Update(r.Context(), b); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Branch not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BRANCH_UPDATE_FAILED", "Failed to update branch", err)
		return
	}

	updated, err := h.repo.GetByID(r.Context(), id)
	if err != nil || updated == nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BRANCH_UPDATE_FAILED", "Failed to load updated branch", err)
		return
	}

	response.OK(w, updated.ToResponse())
}

// Delete handles DELETE /branches/{id} (owner only)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid branch id")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Branch not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BRANCH_DELETE_FAILED", "Failed to delete branch", err)
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
