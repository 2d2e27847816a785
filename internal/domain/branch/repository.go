package branch

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Repository handles branch database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates branch repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a branch and fills its ID
func (r *Repository) Create(ctx context.Context, b *Branch) error {
	query := `
		INSERT INTO branches (owner_id, name, phone, address_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.db.GetContext(ctx, &b.ID, query, b.OwnerID, b.Name, b.Phone, b.AddressID, b.CreatedAt, b.UpdatedAt)
}

// GetByID returns a branch by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Branch, error) {
	var b Branch
	err := r.db.GetContext(ctx, &b, `SELECT * FROM branches WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &b, err
}

// List returns branches ordered by name
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Branch, error) {
	var branches []Branch
	query := `SELECT * FROM branches ORDER BY name LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &branches, query, limit, offset)
	return branches, err
}

// Count returns total number of branches
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM branches`)
	return count, err
}

// Exists reports whether a branch exists
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM branches WHERE id = $1)`, id)
	return exists, err
}

// Update overwrites branch name and phone
func (r *Repository) Update(ctx context.Context, b *Branch) error {
	query := `UPDATE branches SET name = $2, phone = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, b.ID, b.Name, b.Phone, b.UpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePhoto sets the branch photo URLs
func (r *Repository) UpdatePhoto(ctx context.Context, id int64, photoURL, thumbnailURL string) error {
	query := `UPDATE branches SET photo_url = $2, thumbnail_url = $3, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, photoURL, thumbnailURL)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a branch
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
