package notification

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a notification does not exist for the user
var ErrNotFound = errors.New("notification not found")

// Repository handles notification database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates notification repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a notification and fills its ID
func (r *Repository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, body, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.db.GetContext(ctx, &n.ID, query, n.UserID, n.Type, n.Title, n.Body, n.Read, n.CreatedAt)
}

// ListByUser returns a user's notifications, newest first
func (r *Repository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Notification, error) {
	var notifications []Notification
	query := `SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &notifications, query, userID, limit, offset)
	return notifications, err
}

// CountByUser returns the number of notifications for a user
func (r *Repository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID)
	return count, err
}

// CountUnread returns the number of unread notifications for a user
func (r *Repository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID)
	return count, err
}

// MarkRead marks one notification as read, scoped to the owner
func (r *Repository) MarkRead(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for a user as read
func (r *Repository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	return err
}
