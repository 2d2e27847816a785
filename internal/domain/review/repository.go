package review

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Review errors
var (
	ErrAlreadyReviewed = errors.New("booking already reviewed")
)

// Repository handles review database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates review repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a review. The unique index on booking_id enforces one
// review per booking.
func (r *Repository) Create(ctx context.Context, rv *Review) error {
	query := `
		INSERT INTO reviews (booking_id, branch_id, client_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.GetContext(ctx, &rv.ID, query,
		rv.BookingID, rv.BranchID, rv.ClientID, rv.Rating, rv.Comment, rv.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrAlreadyReviewed
	}
	return err
}

// ListByBranch returns a branch's reviews, newest first
func (r *Repository) ListByBranch(ctx context.Context, branchID int64, limit, offset int) ([]Review, error) {
	var reviews []Review
	query := `SELECT * FROM reviews WHERE branch_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &reviews, query, branchID, limit, offset)
	return reviews, err
}

// CountByBranch returns the number of reviews for a branch
func (r *Repository) CountByBranch(ctx context.Context, branchID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reviews WHERE branch_id = $1`, branchID)
	return count, err
}

// SummaryByBranch returns count, average rating and the per-rating distribution
func (r *Repository) SummaryByBranch(ctx context.Context, branchID int64) (*Summary, error) {
	summary := &Summary{
		BranchID:     branchID,
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	var rows []struct {
		Rating int `db:"rating"`
		Count  int `db:"count"`
	}
	query := `SELECT rating, COUNT(*) AS count FROM reviews WHERE branch_id = $1 GROUP BY rating`
	if err := r.db.SelectContext(ctx, &rows, query, branchID); err != nil {
		return nil, err
	}

	sum := 0
	for _, row := range rows {
		summary.Distribution[row.Rating] = row.Count
		summary.Count += row.Count
		sum += row.Rating * row.Count
	}
	if summary.Count > 0 {
		summary.Average = float64(sum) / float64(summary.Count)
	}
	return summary, nil
}
