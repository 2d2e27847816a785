package booking

// CreateRequest for POST /bookings
type CreateRequest struct {
	StartAt       string  `json:"start_at" validate:"required"`
	EndAt         string  `json:"end_at" validate:"required"`
	TotalDuration int     `json:"total_duration" validate:"required,gt=0"`
	TotalPrice    float64 `json:"total_price" validate:"gte=0"`
	ClientID      int64   `json:"client_id" validate:"required,gt=0"`
	StaffID       int64   `json:"staff_id" validate:"required,gt=0"`
	BranchID      int64   `json:"branch_id" validate:"required,gt=0"`
}

// AttachServicesRequest for POST /bookings/services
type AttachServicesRequest struct {
	BookingID  int64   `json:"booking_id" validate:"required,gt=0"`
	ServiceIDs []int64 `json:"service_ids" validate:"required,min=1,dive,gt=0"`
}

// AttachServicesResponse reports how many join rows were created
type AttachServicesResponse struct {
	BookingID int64 `json:"booking_id"`
	Attached  int64 `json:"attached"`
}
