package booking

import "time"

// Status is the booking lifecycle state
type Status string

// Booking statuses
const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// allowedTransitions is the status transition table. Completed and cancelled
// are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether the transition s -> target is allowed
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range allowedTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// actionTargets maps the exposed status actions to their target status
var actionTargets = map[string]Status{
	"confirm":  StatusConfirmed,
	"complete": StatusCompleted,
	"cancel":   StatusCancelled,
}

// Booking is a scheduled appointment linking one client, one staff member,
// one branch and a time window.
type Booking struct {
	ID            int64     `db:"id"`
	ClientID      int64     `db:"client_id"`
	StaffID       int64     `db:"staff_id"`
	BranchID      int64     `db:"branch_id"`
	StartAt       time.Time `db:"start_at"`
	EndAt         time.Time `db:"end_at"`
	TotalDuration int       `db:"total_duration"` // minutes
	TotalPrice    float64   `db:"total_price"`
	Status        Status    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// BookingService pairs one booking with one purchased service. Created as a
// batch at association time, never updated.
type BookingService struct {
	ID        int64 `db:"id"`
	BookingID int64 `db:"booking_id"`
	ServiceID int64 `db:"service_id"`
}

// BookingResponse for API responses
type BookingResponse struct {
	ID            int64   `json:"id"`
	ClientID      int64   `json:"client_id"`
	StaffID       int64   `json:"staff_id"`
	BranchID      int64   `json:"branch_id"`
	StartAt       string  `json:"start_at"`
	EndAt         string  `json:"end_at"`
	TotalDuration int     `json:"total_duration"`
	TotalPrice    float64 `json:"total_price"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

// ToResponse converts entity to response
func (b *Booking) ToResponse() *BookingResponse {
	return &BookingResponse{
		ID:            b.ID,
		ClientID:      b.ClientID,
		StaffID:       b.StaffID,
		BranchID:      b.BranchID,
		StartAt:       b.StartAt.Format(time.RFC3339),
		EndAt:         b.EndAt.Format(time.RFC3339),
		TotalDuration: b.TotalDuration,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}
