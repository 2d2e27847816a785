package branch

import (
	"database/sql"
	"time"
)

// Branch is a barbershop location
type Branch struct {
	ID           int64          `db:"id"`
	OwnerID      int64          `db:"owner_id"`
	Name         string         `db:"name"`
	Phone        sql.NullString `db:"phone"`
	AddressID    sql.NullInt64  `db:"address_id"`
	PhotoURL     sql.NullString `db:"photo_url"`
	ThumbnailURL sql.NullString `db:"thumbnail_url"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// BranchResponse for API responses
type BranchResponse struct {
	ID           int64  `json:"id"`
	OwnerID      int64  `json:"owner_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	AddressID    *int64 `json:"address_id,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// ToResponse converts entity to response
func (b *Branch) ToResponse() *BranchResponse {
	resp := &BranchResponse{
		ID:        b.ID,
		OwnerID:   b.OwnerID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
	if b.Phone.Valid {
		resp.Phone = b.Phone.String
	}
	if b.AddressID.Valid {
		id := b.AddressID.Int64
		resp.AddressID = &id
	}
	if b.PhotoURL.Valid {
		resp.PhotoURL = b.PhotoURL.String
	}
	if b.ThumbnailURL.Valid {
		resp.ThumbnailURL = b.ThumbnailURL.String
	}
	return resp
}
