package favorite

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/barberqueue/barberqueue-api/internal/domain/branch"
	"github.com/barberqueue/barberqueue-api/internal/middleware"
	"github.com/barberqueue/barberqueue-api/internal/pkg/errorhandler"
	"github.com/barberqueue/barberqueue-api/internal/pkg/response"
)

// BranchChecker verifies the branch being favorited exists
type BranchChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Handler handles favorite HTTP requests
type Handler struct {
	repo     *Repository
	branches BranchChecker
}

// NewHandler creates favorite handler
func NewHandler(repo *Repository, branches BranchChecker) *Handler {
	return &Handler{repo: repo, branches: branches}
}

// Add handles POST /branches/{id}/favorite
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	branchID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid branch id")
		return
	}

	exists, err := h.branches.Exists(r.Context(), branchID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "FAVORITE_ADD_FAILED", "Failed to check branch", err)
		return
	}
	if !exists {
		response.NotFound(w, "Branch not found")
		return
	}

	if err := h.repo.Add(r.Context(), middleware.GetUserID(r.Context()), branchID); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "FAVORITE_ADD_FAILED", "Failed to add favorite", err)
		return
	}

	response.OK(w, map[string]bool{"favorited": true})
}

// Remove handles DELETE /branches/{id}/favorite
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	branchID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid branch id")
		return
	}

	if err := h.repo.Remove(r.Context(), middleware.GetUserID(r.Context()), branchID); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "FAVORITE_REMOVE_FAILED", "Failed to remove favorite", err)
		return
	}

	response.NoContent(w)
}

// List handles GET /favorites?page&limit
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	page, limit := pageParams(r)
	offset := (page - 1) * limit

	branches, err := h.repo.ListBranches(r.Context(), userID, limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "FAVORITE_LIST_FAILED", "Failed to list favorites", err)
		return
	}

	total, err := h.repo.Count(r.Context(), userID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "FAVORITE_COUNT_FAILED", "Failed to count favorites", err)
		return
	}

	items := make([]*branch.BranchResponse, len(branches))
	for i := range branches {
		items[i] = branches[i].ToResponse()
	}

	response.WithMeta(w, items, response.NewMeta(total, page, limit))
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
