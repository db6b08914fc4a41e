package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// ProcessURLOzow is the hosted payment page requests are posted to.
const ProcessURLOzow = "https://pay.ozow.com"

// OzowConfig is validated once at construction; handlers never read
// credentials from the environment directly.
type OzowConfig struct {
	SiteCode     string
	CountryCode  string
	CurrencyCode string
	PrivateKey   string
	IsTest       bool
	SuccessURL   string
	CancelURL    string
	ErrorURL     string
	NotifyURL    string
}

func (c *OzowConfig) Validate() error {
	required := []struct{ name, value string }{
		{"site code", c.SiteCode},
		{"country code", c.CountryCode},
		{"currency code", c.CurrencyCode},
		{"private key", c.PrivateKey},
		{"success url", c.SuccessURL},
		{"cancel url", c.CancelURL},
		{"error url", c.ErrorURL},
		{"notify url", c.NotifyURL},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: ozow %s", ErrConfigMissing, r.name)
		}
	}
	return nil
}

// OzowRequest is the outbound payload posted to the Ozow payment page.
// Customer and Optional1-5 travel in the form but are never part of the hash.
type OzowRequest struct {
	SiteCode             string
	CountryCode          string
	CurrencyCode         string
	Amount               string
	TransactionReference string
	BankReference        string
	CancelURL            string
	ErrorURL             string
	SuccessURL           string
	NotifyURL            string
	Customer             string
	Optional1            string
	Optional2            string
	Optional3            string
	Optional4            string
	Optional5            string
	IsTest               string
	HashCheck            string
}

// FormValues returns the form fields for the browser redirect POST, using
// Ozow's exact field names. Empty optional fields are omitted.
func (r *OzowRequest) FormValues() url.Values {
	v := url.Values{}
	v.Set("SiteCode", r.SiteCode)
	v.Set("CountryCode", r.CountryCode)
	v.Set("CurrencyCode", r.CurrencyCode)
	v.Set("Amount", r.Amount)
	v.Set("TransactionReference", r.TransactionReference)
	v.Set("BankReference", r.BankReference)
	v.Set("CancelUrl", r.CancelURL)
	v.Set("ErrorUrl", r.ErrorURL)
	v.Set("SuccessUrl", r.SuccessURL)
	v.Set("NotifyUrl", r.NotifyURL)
	if r.Customer != "" {
		v.Set("Customer", r.Customer)
	}
	for i, opt := range []string{r.Optional1, r.Optional2, r.Optional3, r.Optional4, r.Optional5} {
		if opt != "" {
			v.Set(fmt.Sprintf("Optional%d", i+1), opt)
		}
	}
	v.Set("IsTest", r.IsTest)
	v.Set("HashCheck", r.HashCheck)
	return v
}

// OzowNotification is the inbound payload Ozow posts to both the browser
// redirect and the server-to-server notify endpoint.
type OzowNotification struct {
	SiteCode             string
	TransactionID        string
	TransactionReference string
	Amount               string
	Status               string
	Optional1            string
	Optional2            string
	Optional3            string
	Optional4            string
	Optional5            string
	CurrencyCode         string
	IsTest               string
	StatusMessage        string
	Hash                 string
}

// ParseOzowNotification reads an Ozow callback from posted form values.
func ParseOzowNotification(form url.Values) *OzowNotification {
	return &OzowNotification{
		SiteCode:             form.Get("SiteCode"),
		TransactionID:        form.Get("TransactionId"),
		TransactionReference: form.Get("TransactionReference"),
		Amount:               form.Get("Amount"),
		Status:               form.Get("Status"),
		Optional1:            form.Get("Optional1"),
		Optional2:            form.Get("Optional2"),
		Optional3:            form.Get("Optional3"),
		Optional4:            form.Get("Optional4"),
		Optional5:            form.Get("Optional5"),
		CurrencyCode:         form.Get("CurrencyCode"),
		IsTest:               form.Get("IsTest"),
		StatusMessage:        form.Get("StatusMessage"),
		Hash:                 form.Get("Hash"),
	}
}

type OzowClient struct {
	cfg OzowConfig
}

// NewOzowClient validates the merchant configuration and returns a client.
// A missing credential is a startup error, not something to discover on the
// first checkout.
func NewOzowClient(cfg OzowConfig) (*OzowClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &OzowClient{cfg: cfg}, nil
}

// BuildRequest assembles a signed payment request for the given
// server-computed total. reference must be the order's unique payment
// reference; bankReference is sanitized to Ozow's bank-statement charset.
func (c *OzowClient) BuildRequest(amountCents int64, reference, bankReference, customer string) (*OzowRequest, error) {
	if reference == "" {
		return nil, fmt.Errorf("payment: ozow request requires a transaction reference")
	}
	if bankReference == "" {
		bankReference = reference
	}
	req := &OzowRequest{
		SiteCode:             c.cfg.SiteCode,
		CountryCode:          c.cfg.CountryCode,
		CurrencyCode:         c.cfg.CurrencyCode,
		Amount:               FormatAmount(amountCents),
		TransactionReference: reference,
		BankReference:        SanitizeBankReference(bankReference),
		CancelURL:            c.cfg.CancelURL,
		ErrorURL:             c.cfg.ErrorURL,
		SuccessURL:           c.cfg.SuccessURL,
		NotifyURL:            c.cfg.NotifyURL,
		Customer:             customer,
		IsTest:               boolString(c.cfg.IsTest),
	}
	req.HashCheck = OzowRequestHash(req, c.cfg.PrivateKey)
	return req, nil
}

// VerifyNotification recomputes the response hash and compares it to the
// received one. Ozow occasionally emits digests without leading zero
// characters, so both sides are compared with leading zeros stripped.
func (c *OzowClient) VerifyNotification(n *OzowNotification) bool {
	if n == nil || n.Hash == "" {
		return false
	}
	want := stripLeadingZeros(OzowNotificationHash(n, c.cfg.PrivateKey))
	got := stripLeadingZeros(strings.ToLower(n.Hash))
	return hmac.Equal([]byte(want), []byte(got))
}

// OzowRequestHash computes the outbound HashCheck. The field order is fixed
// by the gateway contract; Customer and the Optional fields are excluded.
// The whole preimage is lower-cased before hashing.
func OzowRequestHash(r *OzowRequest, privateKey string) string {
	var b strings.Builder
	for _, s := range []string{
		r.SiteCode,
		r.CountryCode,
		r.CurrencyCode,
		r.Amount,
		r.TransactionReference,
		r.BankReference,
		r.CancelURL,
		r.ErrorURL,
		r.SuccessURL,
		r.NotifyURL,
		r.IsTest,
		privateKey,
	} {
		b.WriteString(s)
	}
	return sha512Hex(b.String())
}

// OzowNotificationHash computes the expected response hash. Note the order
// differs from the request hash and the optional fields ARE included here,
// as empty strings when absent.
func OzowNotificationHash(n *OzowNotification, privateKey string) string {
	var b strings.Builder
	for _, s := range []string{
		n.SiteCode,
		n.TransactionID,
		n.TransactionReference,
		n.Amount,
		n.Status,
		n.Optional1,
		n.Optional2,
		n.Optional3,
		n.Optional4,
		n.Optional5,
		n.CurrencyCode,
		n.IsTest,
		n.StatusMessage,
		privateKey,
	} {
		b.WriteString(s)
	}
	return sha512Hex(b.String())
}

// SanitizeBankReference keeps only letters, digits, spaces and hyphens and
// truncates to 20 characters - the charset Ozow allows on bank statements.
func SanitizeBankReference(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '-':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 20 {
		out = out[:20]
	}
	return out
}

func sha512Hex(preimage string) string {
	sum := sha512.Sum512([]byte(strings.ToLower(preimage)))
	return hex.EncodeToString(sum[:])
}

func stripLeadingZeros(s string) string {
	return strings.TrimLeft(s, "0")
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
