package favorite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/barberqueue/barberqueue-api/internal/domain/branch"
)

// Repository handles favorite database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates favorite repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Add marks a branch as favorite. Idempotent: adding twice is a no-op.
func (r *Repository) Add(ctx context.Context, userID, branchID int64) error {
	query := `
		INSERT INTO favorites (user_id, branch_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, branch_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID, branchID)
	return err
}

// Remove unmarks a favorite. Removing a non-favorite is a no-op.
func (r *Repository) Remove(ctx context.Context, userID, branchID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1 AND branch_id = $2`, userID, branchID)
	return err
}

// ListBranches returns the caller's favorite branches, most recently added first
func (r *Repository) ListBranches(ctx context.Context, userID int64, limit, offset int) ([]branch.Branch, error) {
	var branches []branch.Branch
	query := `
		SELECT b.* FROM branches b
		JOIN favorites f ON f.branch_id = b.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &branches, query, userID, limit, offset)
	return branches, err
}

// Count returns how many branches the caller has favorited
func (r *Repository) Count(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM favorites WHERE user_id = $1`, userID)
	return count, err
}
