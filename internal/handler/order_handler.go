package handler

import (
	"net/http"
	"strconv"

	"poolside/config"
	"poolside/internal/repository"
	"poolside/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderRepo *repository.OrderRepository
	cfg       *config.Config
}

func NewOrderHandler(orderRepo *repository.OrderRepository, cfg *config.Config) *OrderHandler {
	return &OrderHandler{orderRepo: orderRepo, cfg: cfg}
}

// List returns orders, newest first (admin).
func (h *OrderHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	orders, err := h.orderRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Get returns one order by payment reference (admin).
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderRepo.GetByReference(c.Param("reference"))
	if err != nil || order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// Invoice renders the order's PDF invoice (admin).
func (h *OrderHandler) Invoice(c *gin.Context) {
	order, err := h.orderRepo.GetByReference(c.Param("reference"))
	if err != nil || order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	pdf, err := service.RenderInvoice(order, h.cfg.Store.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invoice render failed"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=invoice-"+order.PaymentReference+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
