package handler

import (
	"log"
	"net/http"
	"strconv"

	"poolside/internal/models"
	"poolside/internal/repository"
	"poolside/internal/service"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactRepo *repository.ContactRepository
	mailer      service.Mailer
}

func NewContactHandler(contactRepo *repository.ContactRepository, mailer service.Mailer) *ContactHandler {
	return &ContactHandler{contactRepo: contactRepo, mailer: mailer}
}

// Submit stores a contact-form message and notifies the store operator.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Phone   string `json:"phone"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg := &models.ContactMessage{Name: req.Name, Email: req.Email, Phone: req.Phone, Message: req.Message}
	if err := h.contactRepo.Create(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "submit failed"})
		return
	}
	if err := h.mailer.SendContactNotification(msg); err != nil {
		log.Printf("[CONTACT] notification email failed: %v", err)
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// List returns stored messages, newest first (admin).
func (h *ContactHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	messages, err := h.contactRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
