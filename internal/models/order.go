package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is one checkout attempt. PaymentReference is the client-facing
// external reference both gateways echo back in their callbacks; it is the
// primary lookup key for reconciliation and never changes after creation.
// AmountCents is the authoritative total (items + shipping) computed
// server-side at creation - callback amounts are only compared against it,
// never written.
type Order struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	PaymentReference string `gorm:"size:64;uniqueIndex;not null" json:"payment_reference"`
	Provider         string `gorm:"size:20;not null;index" json:"provider"` // ozow | payfast
	Status           string `gorm:"size:20;not null;index" json:"status"`   // PENDING, PAID, CANCELLED, ERROR
	AmountCents      int64  `gorm:"not null" json:"amount_cents"`
	ShippingCents    int64  `gorm:"not null;default:0" json:"shipping_cents"`
	Currency         string `gorm:"size:3;default:'ZAR'" json:"currency"`

	// Set by the first valid callback; kept for audit thereafter.
	GatewayTransactionID string `gorm:"size:128;index" json:"gateway_transaction_id"`
	GatewayRawStatus     string `gorm:"size:64" json:"gateway_raw_status"`

	CustomerFirstName string `gorm:"size:100" json:"customer_first_name"`
	CustomerLastName  string `gorm:"size:100" json:"customer_last_name"`
	CustomerEmail     string `gorm:"size:255;not null" json:"customer_email"`
	CustomerPhone     string `gorm:"size:30" json:"customer_phone"`

	DeliveryMethod  string `gorm:"size:20;not null" json:"delivery_method"` // DELIVERY | PICKUP
	AddressStreet   string `gorm:"size:255" json:"address_street"`
	AddressSuburb   string `gorm:"size:100" json:"address_suburb"`
	AddressCity     string `gorm:"size:100" json:"address_city"`
	AddressProvince string `gorm:"size:50" json:"address_province"`
	AddressPostal   string `gorm:"size:10" json:"address_postal"`

	PaidAt    *time.Time     `json:"paid_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// ItemsTotalCents recomputes the line-item subtotal from the snapshot.
func (o *Order) ItemsTotalCents() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.UnitPriceCents * int64(it.Quantity)
	}
	return total
}

// OrderItem snapshots what was purchased at checkout time, so later product
// edits never change what an order says it sold.
type OrderItem struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrderID        uint   `gorm:"not null;index" json:"order_id"`
	ProductID      *uint  `gorm:"index" json:"product_id"`
	Title          string `gorm:"size:255;not null" json:"title"`
	UnitPriceCents int64  `gorm:"not null" json:"unit_price_cents"`
	Quantity       int    `gorm:"not null" json:"quantity"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
