package models

import "time"

// ShippingRate is the per-province delivery fee lookup table. PICKUP orders
// skip the table entirely.
type ShippingRate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Province    string    `gorm:"size:50;uniqueIndex;not null" json:"province"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ShippingRate) TableName() string {
	return "shipping_rates"
}
