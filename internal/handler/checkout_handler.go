package handler

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"poolside/internal/domain"
	"poolside/internal/models"
	"poolside/internal/repository"
	"poolside/pkg/payment"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	productRepo  *repository.ProductRepository
	orderRepo    *repository.OrderRepository
	shippingRepo *repository.ShippingRepository
	ozow         *payment.OzowClient
	payfast      *payment.PayFastClient
}

func NewCheckoutHandler(
	productRepo *repository.ProductRepository,
	orderRepo *repository.OrderRepository,
	shippingRepo *repository.ShippingRepository,
	ozow *payment.OzowClient,
	payfast *payment.PayFastClient,
) *CheckoutHandler {
	return &CheckoutHandler{
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		shippingRepo: shippingRepo,
		ozow:         ozow,
		payfast:      payfast,
	}
}

// Checkout validates the cart against the catalog, computes the total
// server-side (unit prices and shipping never come from the client),
// persists the PENDING order and returns the signed gateway payload for the
// browser redirect.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req struct {
		Provider string `json:"provider" binding:"required,oneof=ozow payfast"`
		Items    []struct {
			ProductID uint `json:"product_id" binding:"required"`
			Quantity  int  `json:"quantity" binding:"required,min=1"`
		} `json:"items" binding:"required,min=1"`
		CustomerFirstName string `json:"customer_first_name" binding:"required"`
		CustomerLastName  string `json:"customer_last_name" binding:"required"`
		CustomerEmail     string `json:"customer_email" binding:"required,email"`
		CustomerPhone     string `json:"customer_phone"`
		DeliveryMethod    string `json:"delivery_method" binding:"required,oneof=DELIVERY PICKUP"`
		Address           struct {
			Street   string `json:"street"`
			Suburb   string `json:"suburb"`
			City     string `json:"city"`
			Province string `json:"province"`
			Postal   string `json:"postal"`
		} `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var items []models.OrderItem
	var itemsCents int64
	for _, line := range req.Items {
		p, err := h.productRepo.GetByID(line.ProductID)
		if err != nil || p == nil || !p.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("product %d not available", line.ProductID)})
			return
		}
		pid := p.ID
		items = append(items, models.OrderItem{
			ProductID:      &pid,
			Title:          p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       line.Quantity,
		})
		itemsCents += p.PriceCents * int64(line.Quantity)
	}

	var shippingCents int64
	if req.DeliveryMethod == domain.DeliveryMethodDelivery {
		if req.Address.Street == "" || req.Address.City == "" || req.Address.Province == "" || req.Address.Postal == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "street, city, province and postal code required for delivery"})
			return
		}
		rate, err := h.shippingRepo.GetByProvince(req.Address.Province)
		if err != nil || rate == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no shipping rate for province " + req.Address.Province})
			return
		}
		shippingCents = rate.AmountCents
	}
	totalCents := itemsCents + shippingCents

	reference := fmt.Sprintf("PSB-%s", strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12]))
	order := &models.Order{
		PaymentReference:  reference,
		Provider:          req.Provider,
		Status:            domain.OrderStatusPending,
		AmountCents:       totalCents,
		ShippingCents:     shippingCents,
		Currency:          "ZAR",
		CustomerFirstName: req.CustomerFirstName,
		CustomerLastName:  req.CustomerLastName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		DeliveryMethod:    req.DeliveryMethod,
		AddressStreet:     req.Address.Street,
		AddressSuburb:     req.Address.Suburb,
		AddressCity:       req.Address.City,
		AddressProvince:   req.Address.Province,
		AddressPostal:     req.Address.Postal,
		Items:             items,
	}
	if err := h.orderRepo.Create(order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order create failed"})
		return
	}
	log.Printf("[CHECKOUT] order %s created: provider=%s items=%d cents total=%d cents (shipping %d)",
		reference, req.Provider, itemsCents, totalCents, shippingCents)

	itemName := fmt.Sprintf("Order %s", reference)
	switch req.Provider {
	case domain.ProviderOzow:
		customer := strings.TrimSpace(req.CustomerFirstName + " " + req.CustomerLastName)
		payReq, err := h.ozow.BuildRequest(totalCents, reference, reference, customer)
		if err != nil {
			log.Printf("[CHECKOUT] ozow build failed for %s: %v", reference, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment request build failed"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"reference":    reference,
			"provider":     domain.ProviderOzow,
			"amount_cents": totalCents,
			"action_url":   payment.ProcessURLOzow,
			"fields":       flattenValues(payReq.FormValues()),
		})
	case domain.ProviderPayFast:
		payReq, err := h.payfast.BuildRequest(
			totalCents, reference, itemName,
			fmt.Sprintf("%d item(s) from Poolside Beanbags", len(items)),
			req.CustomerFirstName, req.CustomerLastName, req.CustomerEmail,
		)
		if err != nil {
			log.Printf("[CHECKOUT] payfast build failed for %s: %v", reference, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment request build failed"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"reference":    reference,
			"provider":     domain.ProviderPayFast,
			"amount_cents": totalCents,
			"action_url":   h.payfast.ProcessURL(),
			"fields":       payReq.Fields(),
		})
	}
}

func flattenValues(v map[string][]string) map[string]string {
	out := make(map[string]string, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			out[k] = vals[0]
		}
	}
	return out
}
