package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/barberqueue/barberqueue-api/internal/domain/booking"
	"github.com/barberqueue/barberqueue-api/internal/middleware"
	"github.com/barberqueue/barberqueue-api/internal/pkg/errorhandler"
	"github.com/barberqueue/barberqueue-api/internal/pkg/response"
	"github.com/barberqueue/barberqueue-api/internal/pkg/validator"
)

// BookingDirectory looks up the booking a review refers to
type BookingDirectory interface {
	GetByID(ctx context.Context, id int64) (*booking.Booking, error)
}

// Handler handles review HTTP requests
type Handler struct {
	repo     *Repository
	bookings BookingDirectory
}

// NewHandler creates review handler
func NewHandler(repo *Repository, bookings BookingDirectory) *Handler {
	return &Handler{repo: repo, bookings: bookings}
}

// Create handles POST /reviews (client only). The booking must belong to
// the caller and be completed.
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

	b, err := h.bookings.GetByID(r.Context(), req.BookingID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REVIEW_CREATE_FAILED", "Failed to load booking", err)
		return
	}
	if b == nil {
		response.NotFound(w, "Booking not found")
		return
	}
	if b.ClientID != middleware.GetUserID(r.Context()) {
		response.Forbidden(w, "You can only review your own bookings")
		return
	}
	if b.Status != booking.StatusCompleted {
		response.Conflict(w, "Only completed bookings can be reviewed")
		return
	}

	rv := &Review{
		BookingID: req.BookingID,
		BranchID:  b.BranchID,
		ClientID:  b.ClientID,
		Rating:    req.Rating,
		Comment:   sql.NullString{String: req.Comment, Valid: req.Comment != ""},
		CreatedAt: time.Now(),
	}
	if err := h.repo.Create(r.Context(), rv); err != nil {
		if errors.Is(err, ErrAlreadyReviewed) {
			response.Conflict(w, "Booking already reviewed")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REVIEW_CREATE_FAILED", "Failed to create review", err)
		return
	}

	response.Created(w, rv.ToResponse())
}

// ListByBranch handles GET /branches/{id}/reviews
func (h *Handler) ListByBranch(w http.ResponseWriter, r *http.Request) {
	branchID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid branch id")
		return
	}

	page, limit := pageParams(r)
	offset := (page - 1) * limit

	reviews, err := h.repo.ListByBranch(r.Context(), branchID, limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REVIEW_LIST_FAILED", "Failed to list reviews", err)
		return
	}

	total, err := h.repo.CountByBranch(r.Context(), branchID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REVIEW_COUNT_FAILED", "Failed to count reviews", err)
		return
	}

	items := make([]*ReviewResponse, len(reviews))
	for i := range reviews {
		items[i] = reviews[i].ToResponse()
	}

	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// SummaryByBranch handles GET /branches/{id}/reviews/summary
func (h *Handler) SummaryByBranch(w http.ResponseWriter, r *http.Request) {
	branchID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid branch id")
		return
	}

	summary, err := h.repo.SummaryByBranch(r.Context(), branchID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REVIEW_SUMMARY_FAILED", "Failed to build review summary", err)
		return
	}

	response.OK(w, summary)
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
