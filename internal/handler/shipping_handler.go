package handler

import (
	"net/http"

	"poolside/internal/models"
	"poolside/internal/repository"

	"github.com/gin-gonic/gin"
)

type ShippingHandler struct {
	shippingRepo *repository.ShippingRepository
}

func NewShippingHandler(shippingRepo *repository.ShippingRepository) *ShippingHandler {
	return &ShippingHandler{shippingRepo: shippingRepo}
}

// Rates returns the per-province courier fee table.
func (h *ShippingHandler) Rates(c *gin.Context) {
	rates, err := h.shippingRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

// UpdateRate upserts one province's fee (admin).
func (h *ShippingHandler) UpdateRate(c *gin.Context) {
	var req struct {
		Province    string `json:"province" binding:"required"`
		AmountCents int64  `json:"amount_cents" binding:"required,min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rate := &models.ShippingRate{Province: req.Province, AmountCents: req.AmountCents}
	if err := h.shippingRepo.Upsert(rate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
