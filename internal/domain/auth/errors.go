package auth

import "errors"

var (
	ErrPhoneAlreadyExists  = errors.New("phone number already registered")
	ErrInvalidCredentials  = errors.New("invalid phone or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserNotFound        = errors.New("user not found")
	ErrBranchNotFound      = errors.New("branch does not exist")
)
