package auth

import (
	"time"
)

// AddressRequest is the client's home address supplied at registration
type AddressRequest struct {
	Text string   `json:"text" validate:"required,min=3,max=500"`
	Lat  *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng  *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

// ClientRegisterRequest for POST /auth/register/client
type ClientRegisterRequest struct {
	Phone     string          `json:"phone" validate:"required,phone"`
	Password  string          `json:"password" validate:"required,min=8,max=128"`
	FullName  string          `json:"full_name" validate:"required,min=2,max=200"`
	Email     string          `json:"email" validate:"omitempty,email,max=255"`
	BirthDate string          `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Address   *AddressRequest `json:"address" validate:"required"`
}

// StaffRegisterRequest for POST /auth/register/staff (owner only)
type StaffRegisterRequest struct {
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"required,min=2,max=200"`
	BranchID int64  `json:"branch_id" validate:"required,gt=0"`
}

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest for POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest for POST /auth/logout; the access token comes from the
// Authorization header, the refresh token (if any) from the body.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse returned after login/register
type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        int64  `json:"id"`
	Phone     string `json:"phone"`
	FullName  string `json:"full_name"`
	Email     string `json:"email,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
	Role      string `json:"role"`
	BranchID  *int64 `json:"branch_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// TokensResponse represents tokens in API responses
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // seconds until the access token expires
	TokenType    string `json:"token_type"`
}

func formatBirthDate(t time.Time) string {
	return t.Format("2006-01-02")
}
