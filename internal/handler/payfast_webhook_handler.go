package handler

import (
	"log"
	"net/http"

	"poolside/internal/models"
	"poolside/internal/repository"
	"poolside/internal/service"
	"poolside/pkg/payment"

	"github.com/gin-gonic/gin"
)

// PayFastWebhookHandler consumes the PayFast ITN (Instant Transaction
// Notification) and the browser return/cancel redirects. Only the ITN is
// authenticated and only the ITN moves order state.
type PayFastWebhookHandler struct {
	payfast   *payment.PayFastClient
	orderRepo *repository.OrderRepository
	orderSvc  *service.OrderService
	auditRepo *repository.AuditLogRepository
}

func NewPayFastWebhookHandler(payfast *payment.PayFastClient, orderRepo *repository.OrderRepository, orderSvc *service.OrderService, auditRepo *repository.AuditLogRepository) *PayFastWebhookHandler {
	return &PayFastWebhookHandler{payfast: payfast, orderRepo: orderRepo, orderSvc: orderSvc, auditRepo: auditRepo}
}

// ITN handles the asynchronous server-to-server notification.
func (h *PayFastWebhookHandler) ITN(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form body"})
		return
	}
	itn := payment.ParsePayFastITN(c.Request.PostForm)
	log.Printf("[PAYFAST itn] m_payment_id=%s pf_payment_id=%s status=%s gross=%s", itn.MPaymentID, itn.PFPaymentID, itn.PaymentStatus, itn.AmountGross)

	if !h.payfast.VerifyITN(itn) {
		log.Printf("[PAYFAST itn] SIGNATURE MISMATCH m_payment_id=%s", itn.MPaymentID)
		_ = h.auditRepo.Create(&models.AuditLog{
			Action:     "payfast_invalid_signature",
			Resource:   "order",
			ResourceID: itn.MPaymentID,
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		})
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	outcome, err := h.orderSvc.ApplyGatewayResult(itn.MPaymentID, service.GatewayResult{
		Provider:      "payfast",
		TransactionID: itn.PFPaymentID,
		RawStatus:     itn.PaymentStatus,
		AmountGross:   itn.AmountGross,
	})
	if err != nil {
		log.Printf("[PAYFAST itn] reconcile error for %s: %v", itn.MPaymentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconcile failed"})
		return
	}
	if outcome == service.OutcomeNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown payment reference"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true, "outcome": outcome})
}

// Return is the browser landing after a completed payment. The redirect is
// unauthenticated, so it only reports current order state - the ITN is the
// source of truth.
func (h *PayFastWebhookHandler) Return(c *gin.Context) {
	h.reportStatus(c)
}

// Cancel is the browser landing after the shopper backs out.
func (h *PayFastWebhookHandler) Cancel(c *gin.Context) {
	h.reportStatus(c)
}

func (h *PayFastWebhookHandler) reportStatus(c *gin.Context) {
	ref := c.Query("reference")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference required"})
		return
	}
	order, err := h.orderRepo.GetByReference(ref)
	if err != nil || order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reference": order.PaymentReference, "status": order.Status})
}
