package payment

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// PayFastConfig is validated once at construction, like OzowConfig.
// Passphrase is optional: when empty it must be left out of the signature
// preimage entirely, not appended as an empty pair.
type PayFastConfig struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	ProcessURL  string
	ReturnURL   string
	CancelURL   string
	NotifyURL   string
}

func (c *PayFastConfig) Validate() error {
	required := []struct{ name, value string }{
		{"merchant id", c.MerchantID},
		{"merchant key", c.MerchantKey},
		{"process url", c.ProcessURL},
		{"return url", c.ReturnURL},
		{"cancel url", c.CancelURL},
		{"notify url", c.NotifyURL},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: payfast %s", ErrConfigMissing, r.name)
		}
	}
	return nil
}

// PayFastRequest is the outbound redirect payload.
type PayFastRequest struct {
	MerchantID      string
	MerchantKey     string
	ReturnURL       string
	CancelURL       string
	NotifyURL       string
	NameFirst       string
	NameLast        string
	EmailAddress    string
	MPaymentID      string
	Amount          string
	ItemName        string
	ItemDescription string
	CustomStr1      string
	CustomStr2      string
	CustomStr3      string
	CustomStr4      string
	CustomStr5      string
	Signature       string
}

// Fields returns the payload as PayFast's snake_case field map, empty values
// omitted. The signature field is included when set.
func (r *PayFastRequest) Fields() map[string]string {
	fields := map[string]string{
		"merchant_id":      r.MerchantID,
		"merchant_key":     r.MerchantKey,
		"return_url":       r.ReturnURL,
		"cancel_url":       r.CancelURL,
		"notify_url":       r.NotifyURL,
		"name_first":       r.NameFirst,
		"name_last":        r.NameLast,
		"email_address":    r.EmailAddress,
		"m_payment_id":     r.MPaymentID,
		"amount":           r.Amount,
		"item_name":        r.ItemName,
		"item_description": r.ItemDescription,
		"custom_str1":      r.CustomStr1,
		"custom_str2":      r.CustomStr2,
		"custom_str3":      r.CustomStr3,
		"custom_str4":      r.CustomStr4,
		"custom_str5":      r.CustomStr5,
		"signature":        r.Signature,
	}
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields
}

// FormValues returns the payload as url.Values for the redirect form POST.
func (r *PayFastRequest) FormValues() url.Values {
	v := url.Values{}
	for k, val := range r.Fields() {
		v.Set(k, val)
	}
	return v
}

// PayFastITN is the parsed Instant Transaction Notification. Raw keeps every
// posted field so the signature can be recomputed over exactly what was
// received, echoed unknown fields included.
type PayFastITN struct {
	MPaymentID    string
	PFPaymentID   string
	PaymentStatus string
	AmountGross   string
	AmountFee     string
	AmountNet     string
	ItemName      string
	Signature     string
	Raw           map[string]string
}

// ParsePayFastITN reads an ITN from posted form values.
func ParsePayFastITN(form url.Values) *PayFastITN {
	raw := make(map[string]string, len(form))
	for k := range form {
		raw[k] = form.Get(k)
	}
	return &PayFastITN{
		MPaymentID:    form.Get("m_payment_id"),
		PFPaymentID:   form.Get("pf_payment_id"),
		PaymentStatus: form.Get("payment_status"),
		AmountGross:   form.Get("amount_gross"),
		AmountFee:     form.Get("amount_fee"),
		AmountNet:     form.Get("amount_net"),
		ItemName:      form.Get("item_name"),
		Signature:     form.Get("signature"),
		Raw:           raw,
	}
}

type PayFastClient struct {
	cfg PayFastConfig
}

func NewPayFastClient(cfg PayFastConfig) (*PayFastClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PayFastClient{cfg: cfg}, nil
}

// ProcessURL is the hosted page the signed request is posted to.
func (c *PayFastClient) ProcessURL() string {
	return c.cfg.ProcessURL
}

// BuildRequest assembles a signed redirect payload for the server-computed
// total. reference becomes m_payment_id, the key callbacks are matched on.
func (c *PayFastClient) BuildRequest(amountCents int64, reference, itemName, itemDescription, nameFirst, nameLast, email string) (*PayFastRequest, error) {
	if reference == "" {
		return nil, fmt.Errorf("payment: payfast request requires m_payment_id")
	}
	if itemName == "" {
		return nil, fmt.Errorf("payment: payfast request requires item_name")
	}
	req := &PayFastRequest{
		MerchantID:      c.cfg.MerchantID,
		MerchantKey:     c.cfg.MerchantKey,
		ReturnURL:       c.cfg.ReturnURL,
		CancelURL:       c.cfg.CancelURL,
		NotifyURL:       c.cfg.NotifyURL,
		NameFirst:       nameFirst,
		NameLast:        nameLast,
		EmailAddress:    email,
		MPaymentID:      reference,
		Amount:          FormatAmount(amountCents),
		ItemName:        itemName,
		ItemDescription: itemDescription,
	}
	req.Signature = PayFastSignature(req.Fields(), c.cfg.Passphrase)
	return req, nil
}

// VerifyITN recomputes the signature over every received field except
// "signature" and compares hex digests exactly - PayFast has no
// leading-zero quirk.
func (c *PayFastClient) VerifyITN(itn *PayFastITN) bool {
	if itn == nil || itn.Signature == "" {
		return false
	}
	want := PayFastSignature(itn.Raw, c.cfg.Passphrase)
	return hmac.Equal([]byte(want), []byte(itn.Signature))
}

// PayFastSignature is the MD5 over the canonical serialization: non-empty
// fields (signature excluded), keys sorted ascending, values URL-encoded
// with spaces as '+', joined with '&'. A configured passphrase is appended
// as a final pair; an empty one is omitted entirely.
func PayFastSignature(fields map[string]string, passphrase string) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if k == "signature" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, k+"="+url.QueryEscape(fields[k]))
	}
	if passphrase != "" {
		parts = append(parts, "passphrase="+url.QueryEscape(passphrase))
	}
	sum := md5.Sum([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(sum[:])
}
