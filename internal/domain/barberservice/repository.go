package barberservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a service does not exist
var ErrNotFound = errors.New("service not found")

// Repository handles service catalog database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates service repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a service and fills its ID
func (r *Repository) Create(ctx context.Context, s *Service) error {
	query := `
		INSERT INTO services (name, price, duration, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.GetContext(ctx, &s.ID, query, s.Name, s.Price, s.Duration, s.CreatedAt, s.UpdatedAt)
}

// GetByID returns a service by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Service, error) {
	var s Service
	err := r.db.GetContext(ctx, &s, `SELECT * FROM services WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &s, err
}

// List returns services ordered by name
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Service, error) {
	var services []Service
	query := `SELECT * FROM services ORDER BY name LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &services, query, limit, offset)
	return services, err
}

// Count returns total number of services
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM services`)
	return count, err
}

// Update overwrites a service
func (r *Repository) Update(ctx context.Context, s *Service) error {
	query := `UPDATE services SET name = $2, price = $3, duration = $4, updated_at = $5 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Price, s.Duration, s.UpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a service
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
