package queue

// QueueBookingEvents is the durable queue carrying booking lifecycle events.
const QueueBookingEvents = "booking.events"

// Event types carried on the booking events queue
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent is published on booking creation and on every status change.
// It carries enough for the notify worker to write notifications and send
// email without querying the primary database again.
type BookingEvent struct {
	Type          string `json:"type"`
	BookingID     int64  `json:"booking_id"`
	ClientID      int64  `json:"client_id"`
	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	StaffID       int64  `json:"staff_id"`
	BranchID      int64  `json:"branch_id"`
	BranchName    string `json:"branch_name"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
	TotalDuration int    `json:"total_duration"`
	TotalPrice    string `json:"total_price"`
	Status        string `json:"status"`
	OccurredAt    string `json:"occurred_at"`
}
