package payment

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayFastConfig(passphrase string) PayFastConfig {
	return PayFastConfig{
		MerchantID:  "10000100",
		MerchantKey: "46f0cd694581a",
		Passphrase:  passphrase,
		ProcessURL:  "https://sandbox.payfast.co.za/eng/process",
		ReturnURL:   "https://store.example/return",
		CancelURL:   "https://store.example/cancel",
		NotifyURL:   "https://store.example/notify",
	}
}

func pinnedFields() map[string]string {
	return map[string]string{
		"merchant_id":   "10000100",
		"merchant_key":  "46f0cd694581a",
		"return_url":    "https://store.example/return",
		"cancel_url":    "https://store.example/cancel",
		"notify_url":    "https://store.example/notify",
		"name_first":    "Test User",
		"email_address": "test@example.com",
		"m_payment_id":  "ORD-1",
		"amount":        "529.00",
		"item_name":     "Pool beanbag order",
	}
}

func TestPayFastSignaturePinned(t *testing.T) {
	assert.Equal(t, "5a827fde76ecfc3d3ea2fd5fb2ce6428", PayFastSignature(pinnedFields(), ""))
}

func TestPayFastSignaturePinnedWithPassphrase(t *testing.T) {
	assert.Equal(t, "5673a61f0b77ea45e12bdc1087307af5", PayFastSignature(pinnedFields(), "jt7NOE43FZPn"))
}

func TestPayFastSignatureSkipsEmptyAndSignatureFields(t *testing.T) {
	base := PayFastSignature(pinnedFields(), "")

	withNoise := pinnedFields()
	withNoise["name_last"] = ""
	withNoise["custom_str1"] = ""
	withNoise["signature"] = "deadbeefdeadbeefdeadbeefdeadbeef"
	assert.Equal(t, base, PayFastSignature(withNoise, ""),
		"empty fields and the signature field itself are excluded from the preimage")
}

func TestPayFastSignatureValueSensitivity(t *testing.T) {
	base := PayFastSignature(pinnedFields(), "")

	changed := pinnedFields()
	changed["amount"] = "529.01"
	assert.NotEqual(t, base, PayFastSignature(changed, ""))

	added := pinnedFields()
	added["custom_str1"] = "promo"
	assert.NotEqual(t, base, PayFastSignature(added, ""))
}

func TestBuildRequestSignature(t *testing.T) {
	client, err := NewPayFastClient(testPayFastConfig(""))
	require.NoError(t, err)

	req, err := client.BuildRequest(52900, "ORD-1", "Pool beanbag order", "", "Test User", "", "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, "529.00", req.Amount)
	assert.Equal(t, "5a827fde76ecfc3d3ea2fd5fb2ce6428", req.Signature,
		"BuildRequest output must match the pinned vector")

	fields := req.Fields()
	assert.Equal(t, req.Signature, fields["signature"])
	_, hasLast := fields["name_last"]
	assert.False(t, hasLast, "empty fields are omitted from the posted form")
}

func TestBuildRequestValidation(t *testing.T) {
	client, err := NewPayFastClient(testPayFastConfig(""))
	require.NoError(t, err)

	_, err = client.BuildRequest(100, "", "item", "", "", "", "")
	assert.Error(t, err)
	_, err = client.BuildRequest(100, "ORD-1", "", "", "", "", "")
	assert.Error(t, err)
}

func TestVerifyITNRoundTrip(t *testing.T) {
	client, err := NewPayFastClient(testPayFastConfig("jt7NOE43FZPn"))
	require.NoError(t, err)

	form := url.Values{}
	form.Set("m_payment_id", "ORD-7")
	form.Set("pf_payment_id", "1089250")
	form.Set("payment_status", "COMPLETE")
	form.Set("amount_gross", "529.00")
	form.Set("amount_fee", "-12.16")
	form.Set("amount_net", "516.84")
	form.Set("item_name", "Order ORD-7")
	itn := ParsePayFastITN(form)
	itn.Signature = PayFastSignature(itn.Raw, "jt7NOE43FZPn")
	itn.Raw["signature"] = itn.Signature
	assert.True(t, client.VerifyITN(itn))

	// a single changed field invalidates the signature
	itn.Raw["amount_gross"] = "1.00"
	assert.False(t, client.VerifyITN(itn))
}

func TestVerifyITNRejectsMissingSignature(t *testing.T) {
	client, err := NewPayFastClient(testPayFastConfig(""))
	require.NoError(t, err)
	itn := ParsePayFastITN(url.Values{"m_payment_id": {"ORD-1"}})
	assert.False(t, client.VerifyITN(itn))
	assert.False(t, client.VerifyITN(nil))
}

func TestVerifyITNCoversUnknownEchoedFields(t *testing.T) {
	// PayFast echoes custom fields back; they are part of the signed payload
	// and an attacker must not be able to inject them unsigned.
	client, err := NewPayFastClient(testPayFastConfig(""))
	require.NoError(t, err)

	form := url.Values{}
	form.Set("m_payment_id", "ORD-8")
	form.Set("payment_status", "COMPLETE")
	itn := ParsePayFastITN(form)
	itn.Signature = PayFastSignature(itn.Raw, "")
	itn.Raw["signature"] = itn.Signature
	require.True(t, client.VerifyITN(itn))

	itn.Raw["custom_str1"] = "injected"
	assert.False(t, client.VerifyITN(itn))
}

func TestNewPayFastClientValidatesConfig(t *testing.T) {
	cfg := testPayFastConfig("")
	cfg.MerchantKey = ""
	_, err := NewPayFastClient(cfg)
	require.ErrorIs(t, err, ErrConfigMissing)
}
