package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	PriceCents    int64          `gorm:"not null" json:"price_cents"`
	Currency      string         `gorm:"size:3;default:'ZAR'" json:"currency"`
	ImageURL      string         `gorm:"size:512" json:"image_url"`
	ThumbnailURL  string         `gorm:"size:512" json:"thumbnail_url"`
	StockQuantity int            `gorm:"default:0" json:"stock_quantity"`
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
