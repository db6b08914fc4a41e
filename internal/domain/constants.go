package domain

import "strings"

const (
	RoleAdmin = "ADMIN"
)

const (
	ProviderOzow    = "ozow"
	ProviderPayFast = "payfast"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusError     = "ERROR"
)

const (
	DeliveryMethodDelivery = "DELIVERY"
	DeliveryMethodPickup   = "PICKUP"
)

// MapGatewayStatus maps a raw gateway status string (Ozow or PayFast) to an
// order status. ok is false for statuses that must not change order state
// (e.g. PENDING, PendingInvestigation) - those are recorded for audit only.
func MapGatewayStatus(raw string) (status string, ok bool) {
	switch {
	case strings.EqualFold(raw, "COMPLETE"):
		return OrderStatusPaid, true
	case strings.EqualFold(raw, "CANCELLED"), strings.EqualFold(raw, "ABANDONED"):
		return OrderStatusCancelled, true
	case strings.EqualFold(raw, "FAILED"), strings.EqualFold(raw, "ERROR"):
		return OrderStatusError, true
	default:
		return "", false
	}
}

// Provinces lists the South African provinces the shipping rate table covers.
var Provinces = []string{
	"Eastern Cape",
	"Free State",
	"Gauteng",
	"KwaZulu-Natal",
	"Limpopo",
	"Mpumalanga",
	"North West",
	"Northern Cape",
	"Western Cape",
}
