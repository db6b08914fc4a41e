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

// OzowWebhookHandler consumes Ozow's browser redirect and server-to-server
// notify callbacks. Both carry the same field set and hash; both run the
// same verify+apply path, so whichever arrives first settles the order.
type OzowWebhookHandler struct {
	ozow      *payment.OzowClient
	orderSvc  *service.OrderService
	auditRepo *repository.AuditLogRepository
}

func NewOzowWebhookHandler(ozow *payment.OzowClient, orderSvc *service.OrderService, auditRepo *repository.AuditLogRepository) *OzowWebhookHandler {
	return &OzowWebhookHandler{ozow: ozow, orderSvc: orderSvc, auditRepo: auditRepo}
}

// Notify handles the asynchronous server notification.
func (h *OzowWebhookHandler) Notify(c *gin.Context) {
	h.handle(c, "notify")
}

// Redirect handles the browser return POST. Same verification and state
// application as Notify; the JSON body lets the frontend show the result.
func (h *OzowWebhookHandler) Redirect(c *gin.Context) {
	h.handle(c, "redirect")
}

func (h *OzowWebhookHandler) handle(c *gin.Context, source string) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form body"})
		return
	}
	n := payment.ParseOzowNotification(c.Request.PostForm)
	log.Printf("[OZOW %s] ref=%s txn=%s status=%s amount=%s", source, n.TransactionReference, n.TransactionID, n.Status, n.Amount)

	if !h.ozow.VerifyNotification(n) {
		// Acknowledge with 200 so the gateway does not retry-storm a
		// notification we will never accept; the audit entry is the alarm.
		log.Printf("[OZOW %s] SIGNATURE MISMATCH ref=%s hash=%s", source, n.TransactionReference, n.Hash)
		_ = h.auditRepo.Create(&models.AuditLog{
			Action:     "ozow_invalid_signature",
			Resource:   "order",
			ResourceID: n.TransactionReference,
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		})
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	outcome, err := h.orderSvc.ApplyGatewayResult(n.TransactionReference, service.GatewayResult{
		Provider:      "ozow",
		TransactionID: n.TransactionID,
		RawStatus:     n.Status,
		AmountGross:   n.Amount,
	})
	if err != nil {
		log.Printf("[OZOW %s] reconcile error for %s: %v", source, n.TransactionReference, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconcile failed"})
		return
	}
	if outcome == service.OutcomeNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown payment reference"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true, "outcome": outcome})
}
