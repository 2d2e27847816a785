package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Repository defines booking storage operations
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	AttachServices(ctx context.Context, bookingID int64, serviceIDs []int64) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	HistoryByClient(ctx context.Context, clientID int64, limit, offset int) ([]Booking, error)
	CountByClient(ctx context.Context, clientID int64) (int, error)
	HistoryByStaff(ctx context.Context, staffID int64, limit, offset int) ([]Booking, error)
	CountByStaff(ctx context.Context, staffID int64) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (client_id, staff_id, branch_id, start_at, end_at, total_duration, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.db.GetContext(ctx, &b.ID, query,
		b.ClientID, b.StaffID, b.BranchID, b.StartAt, b.EndAt,
		b.TotalDuration, b.TotalPrice, b.Status, b.CreatedAt, b.UpdatedAt)
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT * FROM bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &b, err
}

// AttachServices inserts one join row per service id inside a single
// transaction. Each service is checked individually so the error can name
// the invalid id; any missing service rolls back the whole batch.
func (r *repository) AttachServices(ctx context.Context, bookingID int64, serviceIDs []int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, serviceID := range serviceIDs {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM services WHERE id = $1)`, serviceID); err != nil {
			return 0, err
		}
		if !exists {
			return 0, &ServiceNotFoundError{ID: serviceID}
		}
	}

	placeholders := make([]string, len(serviceIDs))
	args := make([]interface{}, 0, len(serviceIDs)*2)
	for i, serviceID := range serviceIDs {
		placeholders[i] = fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2)
		args = append(args, bookingID, serviceID)
	}
	query := `INSERT INTO booking_services (booking_id, service_id) VALUES ` + strings.Join(placeholders, ", ")

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) HistoryByClient(ctx context.Context, clientID int64, limit, offset int) ([]Booking, error) {
	var bookings []Booking
	query := `SELECT * FROM bookings WHERE client_id = $1 ORDER BY start_at DESC LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &bookings, query, clientID, limit, offset)
	return bookings, err
}

func (r *repository) CountByClient(ctx context.Context, clientID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings WHERE client_id = $1`, clientID)
	return count, err
}

func (r *repository) HistoryByStaff(ctx context.Context, staffID int64, limit, offset int) ([]Booking, error) {
	var bookings []Booking
	query := `SELECT * FROM bookings WHERE staff_id = $1 ORDER BY start_at DESC LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &bookings, query, staffID, limit, offset)
	return bookings, err
}

func (r *repository) CountByStaff(ctx context.Context, staffID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings WHERE staff_id = $1`, staffID)
	return count, err
}
