package review

import (
	"database/sql"
	"time"
)

// Review is a client's rating of a branch, tied to one completed visit.
// One review per booking.
type Review struct {
	ID        int64          `db:"id"`
	BookingID int64          `db:"booking_id"`
	BranchID  int64          `db:"branch_id"`
	ClientID  int64          `db:"client_id"`
	Rating    int            `db:"rating"`
	Comment   sql.NullString `db:"comment"`
	CreatedAt time.Time      `db:"created_at"`
}

// ReviewResponse for API responses
type ReviewResponse struct {
	ID        int64  `json:"id"`
	BookingID int64  `json:"booking_id"`
	BranchID  int64  `json:"branch_id"`
	ClientID  int64  `json:"client_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ToResponse converts entity to response
func (rv *Review) ToResponse() *ReviewResponse {
	resp := &ReviewResponse{
		ID:        rv.ID,
		BookingID: rv.BookingID,
		BranchID:  rv.BranchID,
		ClientID:  rv.ClientID,
		Rating:    rv.Rating,
		CreatedAt: rv.CreatedAt.Format(time.RFC3339),
	}
	if rv.Comment.Valid {
		resp.Comment = rv.Comment.String
	}
	return resp
}

// CreateRequest for POST /reviews
type CreateRequest struct {
	BookingID int64  `json:"booking_id" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// Summary aggregates a branch's ratings
type Summary struct {
	BranchID     int64       `json:"branch_id"`
	Count        int         `json:"count"`
	Average      float64     `json:"average"`
	Distribution map[int]int `json:"distribution"`
}
