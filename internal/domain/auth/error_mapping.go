package auth

import (
	"errors"

	"github.com/lib/pq"
)

const sqlStateUniqueViolation = "23505"

// isPhoneAlreadyExistsError detects a duplicate phone from either the service
// pre-check or the unique constraint on users.phone. The pre-check normally
// fires first; the constraint closes the race between two concurrent
// registrations with the same phone.
func isPhoneAlreadyExistsError(err error) bool {
	if errors.Is(err, ErrPhoneAlreadyExists) {
		return true
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != sqlStateUniqueViolation {
		return false
	}
	if pqErr.Constraint == "users_phone_key" {
		return true
	}
	return pqErr.Table == "users" && pqErr.Column == "phone"
}
