package address

import "time"

// Address is a geocoded location for a client or a branch
type Address struct {
	ID        int64     `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	Lat       float64   `db:"lat" json:"lat"`
	Lng       float64   `db:"lng" json:"lng"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UpdateRequest for PUT /addresses/{id}
type UpdateRequest struct {
	Text string  `json:"text" validate:"required,min=3,max=500"`
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng  float64 `json:"lng" validate:"gte=-180,lte=180"`
}
