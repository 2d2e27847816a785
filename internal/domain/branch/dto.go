package branch

// CreateRequest for POST /branches
type CreateRequest struct {
	Name    string          `json:"name" validate:"required,min=2,max=200"`
	Phone   string          `json:"phone" validate:"omitempty,phone"`
	Address *AddressRequest `json:"address" validate:"omitempty"`
}

// AddressRequest is the branch location
type AddressRequest struct {
	Text string  `json:"text" validate:"required,min=3,max=500"`
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng  float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// UpdateRequest for PUT /branches/{id}
type UpdateRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=200"`
	Phone string `json:"phone" validate:"omitempty,phone"`
}
