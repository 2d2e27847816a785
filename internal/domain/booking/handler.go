package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/barberqueue/barberqueue-api/internal/middleware"
	"github.com/barberqueue/barberqueue-api/internal/pkg/errorhandler"
	"github.com/barberqueue/barberqueue-api/internal/pkg/response"
	"github.com/barberqueue/barberqueue-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /bookings
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

	b, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTimes):
			response.BadRequest(w, "Invalid booking time window")
		case errors.Is(err, ErrClientNotFound):
			response.BadRequest(w, "Client does not exist")
		case errors.Is(err, ErrStaffNotFound):
			response.BadRequest(w, "Staff does not exist")
		case errors.Is(err, ErrBranchNotFound):
			response.BadRequest(w, "Branch does not exist")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BOOKING_CREATE_FAILED", "Failed to create booking", err)
		}
		return
	}

	response.Created(w, b.ToResponse())
}

// AttachServices handles POST /bookings/services
func (h *Handler) AttachServices(w http.ResponseWriter, r *http.Request) {
	var req AttachServicesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	count, err := h.service.AttachServices(r.Context(), &req)
	if err != nil {
		var serviceErr *ServiceNotFoundError
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.BadRequest(w, ErrBookingNotFound.Error())
		case errors.As(err, &serviceErr):
			response.BadRequest(w, serviceErr.Error())
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BOOKING_SERVICES_FAILED", "Failed to attach services", err)
		}
		return
	}

	response.Created(w, &AttachServicesResponse{BookingID: req.BookingID, Attached: count})
}

// ChangeStatus handles POST /bookings/{id}/status/{action}
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}
	action := chi.URLParam(r, "action")

	b, err := h.service.ChangeStatus(r.Context(), id, action)
	if err != nil {
		var transitionErr *InvalidTransitionError
		switch {
		case errors.Is(err, ErrUnknownAction):
			response.BadRequest(w, "Unknown status action")
		case errors.Is(err, ErrBookingNotFound):
			response.NotFound(w, "Booking not found")
		case errors.As(err, &transitionErr):
			response.Conflict(w, transitionErr.Error())
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BOOKING_STATUS_FAILED", "Failed to change booking status", err)
		}
		return
	}

	response.OK(w, b.ToResponse())
}

// History handles GET /bookings/history?page&limit
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	role := middleware.GetRole(r.Context())

	page, limit := pageParams(r)
	offset := (page - 1) * limit

	bookings, total, err := h.service.History(r.Context(), userID, role, limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BOOKING_HISTORY_FAILED", "Failed to load booking history", err)
		return
	}

	items := make([]*BookingResponse, len(bookings))
	for i := range bookings {
		items[i] = bookings[i].ToResponse()
	}

	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// GetByID handles GET /bookings/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.NotFound(w, "Booking not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BOOKING_GET_FAILED", "Failed to get booking", err)
		return
	}

	response.OK(w, b.ToResponse())
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
