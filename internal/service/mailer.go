package service

import (
	"fmt"
	"log"
	"strings"

	"poolside/config"
	"poolside/internal/models"
	"poolside/pkg/payment"

	"gopkg.in/gomail.v2"
)

// Mailer dispatches transactional mail. The paid-order confirmation is a
// reconciler side effect and must fire at most once per order.
type Mailer interface {
	SendOrderConfirmation(order *models.Order) error
	SendContactNotification(msg *models.ContactMessage) error
}

// NewMailer returns an SMTP mailer, or a log-only mailer when no SMTP host
// is configured (development default).
func NewMailer(cfg *config.SMTPConfig, storeName string) Mailer {
	if cfg.Host == "" {
		log.Printf("[MAIL] SMTP not configured, mail disabled (log only)")
		return &logMailer{}
	}
	return &smtpMailer{cfg: cfg, storeName: storeName}
}

type smtpMailer struct {
	cfg       *config.SMTPConfig
	storeName string
}

func (m *smtpMailer) SendOrderConfirmation(order *models.Order) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", order.CustomerEmail)
	msg.SetHeader("Subject", fmt.Sprintf("%s - order %s confirmed", m.storeName, order.PaymentReference))
	msg.SetBody("text/plain", orderConfirmationBody(order, m.storeName))
	return m.dial(msg)
}

func (m *smtpMailer) SendContactNotification(contact *models.ContactMessage) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.ContactRecipient)
	msg.SetHeader("Subject", fmt.Sprintf("%s - contact form from %s", m.storeName, contact.Name))
	msg.SetBody("text/plain", fmt.Sprintf("From: %s <%s> %s\n\n%s", contact.Name, contact.Email, contact.Phone, contact.Message))
	return m.dial(msg)
}

func (m *smtpMailer) dial(msg *gomail.Message) error {
	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(msg)
}

func orderConfirmationBody(order *models.Order, storeName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order! Payment received for %s.\n\n", order.CustomerFirstName, order.PaymentReference)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %dx %s @ R%s\n", item.Quantity, item.Title, payment.FormatAmount(item.UnitPriceCents))
	}
	if order.ShippingCents > 0 {
		fmt.Fprintf(&b, "  Shipping: R%s\n", payment.FormatAmount(order.ShippingCents))
	}
	fmt.Fprintf(&b, "\nTotal: R%s\n\n%s\n", payment.FormatAmount(order.AmountCents), storeName)
	return b.String()
}

// logMailer stands in when SMTP is not configured.
type logMailer struct{}

func (l *logMailer) SendOrderConfirmation(order *models.Order) error {
	log.Printf("[MAIL] (disabled) order confirmation for %s to %s", order.PaymentReference, order.CustomerEmail)
	return nil
}

func (l *logMailer) SendContactNotification(contact *models.ContactMessage) error {
	log.Printf("[MAIL] (disabled) contact notification from %s <%s>", contact.Name, contact.Email)
	return nil
}
