package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Repository defines user persistence operations
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsWithRole(ctx context.Context, id int64, role Role) (bool, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (phone, password_hash, full_name, email, birth_date, role, address_id, branch_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.db.GetContext(ctx, &u.ID, query,
		u.Phone,
		u.PasswordHash,
		u.FullName,
		u.Email,
		u.BirthDate,
		u.Role,
		u.AddressID,
		u.BranchID,
		u.CreatedAt,
		u.UpdatedAt,
	)
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &u, err
}

func (r *repository) GetByPhone(ctx context.Context, phone string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE phone = $1`, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &u, err
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id)
	return exists, err
}

func (r *repository) ExistsWithRole(ctx context.Context, id int64, role Role) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND role = $2)`, id, role)
	return exists, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET full_name = $2, email = $3, birth_date = $4, branch_id = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, u.ID, u.FullName, u.Email, u.BirthDate, u.BranchID, u.UpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
