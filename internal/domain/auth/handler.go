package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/barberqueue/barberqueue-api/internal/middleware"
	"github.com/barberqueue/barberqueue-api/internal/pkg/errorhandler"
	"github.com/barberqueue/barberqueue-api/internal/pkg/response"
	"github.com/barberqueue/barberqueue-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterClient handles POST /auth/register/client
func (h *Handler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	var req ClientRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	resp, err := h.service.RegisterClient(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrPhoneAlreadyExists) {
			response.BadRequest(w, "Phone number already registered")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REGISTER_FAILED", "Failed to register", err)
		return
	}

	response.OK(w, resp)
}

// RegisterStaff handles POST /auth/register/staff (owner only)
func (h *Handler) RegisterStaff(w http.ResponseWriter, r *http.Request) {
	var req StaffRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	resp, err := h.service.RegisterStaff(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPhoneAlreadyExists):
			response.BadRequest(w, "Phone number already registered")
		case errors.Is(err, ErrBranchNotFound):
			response.BadRequest(w, "Branch does not exist")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REGISTER_FAILED", "Failed to register", err)
		}
		return
	}

	response.OK(w, resp)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.BadRequest(w, "Invalid phone or password")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login", err)
		return
	}

	response.OK(w, resp)
}

// Refresh handles POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) || errors.Is(err, ErrUserNotFound) {
			response.Unauthorized(w, "Invalid or expired refresh token")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REFRESH_FAILED", "Failed to refresh token", err)
		return
	}

	response.OK(w, resp)
}

// Logout handles POST /auth/logout. The presented access token is revoked for
// the rest of its lifetime, so it is rejected on every subsequent request.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	// Body is optional; a missing or empty body just means no refresh token
	_ = json.NewDecoder(r.Body).Decode(&req)

	jti := middleware.GetTokenJTI(r.Context())
	if err := h.service.Logout(r.Context(), jti, req.RefreshToken); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to logout", err)
		return
	}

	response.OK(w, map[string]string{"message": "Logged out"})
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	resp, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "ME_FAILED", "Failed to get profile", err)
		return
	}

	response.OK(w, resp)
}
