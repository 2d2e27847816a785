package address

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when an address does not exist
var ErrNotFound = errors.New("address not found")

// Repository handles address database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates address repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an address and fills its ID
func (r *Repository) Create(ctx context.Context, a *Address) error {
	query := `
		INSERT INTO addresses (text, lat, lng, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.GetContext(ctx, &a.ID, query, a.Text, a.Lat, a.Lng, a.CreatedAt, a.UpdatedAt)
}

// GetByID returns an address by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Address, error) {
	var a Address
	err := r.db.GetContext(ctx, &a, `SELECT * FROM addresses WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &a, err
}

// GetByUserID returns the address attached to a user
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Address, error) {
	query := `
		SELECT a.* FROM addresses a
		JOIN users u ON u.address_id = a.id
		WHERE u.id = $1
	`
	var a Address
	err := r.db.GetContext(ctx, &a, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &a, err
}

// Update overwrites an address
func (r *Repository) Update(ctx context.Context, a *Address) error {
	query := `UPDATE addresses SET text = $2, lat = $3, lng = $4, updated_at = $5 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, a.ID, a.Text, a.Lat, a.Lng, a.UpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an address
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
