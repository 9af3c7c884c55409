package model

import "time"

// Favourite is a user-owned saved reference to a country.
// Country is a denormalized copy of the catalog record at the time it was
// favourited and may be nil for rows whose payload could not be decoded.
type Favourite struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CountryName string    `json:"country_name"`
	CountryCode string    `json:"country_code,omitempty"`
	Country     *Country  `json:"country_data,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
