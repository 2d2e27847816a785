package barberservice

import "time"

// Service is a purchasable barbershop offering, e.g. a haircut.
// Reference data from the booking's perspective: bookings link to it but
// never mutate it.
type Service struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Price     float64   `db:"price"`
	Duration  int       `db:"duration"` // minutes
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ServiceResponse for API responses
type ServiceResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Duration  int     `json:"duration"`
	CreatedAt string  `json:"created_at"`
}

// ToResponse converts entity to response
func (s *Service) ToResponse() *ServiceResponse {
	return &ServiceResponse{
		ID:        s.ID,
		Name:      s.Name,
		Price:     s.Price,
		Duration:  s.Duration,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

// CreateRequest for POST /barber-services
type CreateRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=200"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Duration int     `json:"duration" validate:"required,gt=0,lte=480"`
}

// UpdateRequest for PUT /barber-services/{id}
type UpdateRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=200"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Duration int     `json:"duration" validate:"required,gt=0,lte=480"`
}
