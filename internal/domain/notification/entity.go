package notification

import "time"

// Notification types
const (
	TypeBookingCreated   = "booking_created"
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingCompleted = "booking_completed"
	TypeBookingCancelled = "booking_cancelled"
)

// Notification is an in-app message for one user
type Notification struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Type      string    `db:"type"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	Read      bool      `db:"read"`
	CreatedAt time.Time `db:"created_at"`
}

// NotificationResponse for API responses
type NotificationResponse struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// ToResponse converts entity to response
func (n *Notification) ToResponse() *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
