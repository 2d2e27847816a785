package user

import (
	"database/sql"
	"time"
)

// Role defines what a user can do on the platform
type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
	RoleOwner  Role = "owner"
)

// IsValidRole checks role value
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleClient, RoleStaff, RoleOwner:
		return true
	}
	return false
}

// User represents an account. Clients book, staff serve, owners manage
// branches and the service catalog.
type User struct {
	ID           int64          `db:"id"`
	Phone        string         `db:"phone"`
	PasswordHash string         `db:"password_hash"`
	FullName     string         `db:"full_name"`
	Email        sql.NullString `db:"email"`
	BirthDate    sql.NullTime   `db:"birth_date"`
	Role         Role           `db:"role"`
	AddressID    sql.NullInt64  `db:"address_id"` // set for clients
	BranchID     sql.NullInt64  `db:"branch_id"`  // set for staff
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
