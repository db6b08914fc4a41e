package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOzowConfig() OzowConfig {
	return OzowConfig{
		SiteCode:     "TEST-001",
		CountryCode:  "ZA",
		CurrencyCode: "ZAR",
		PrivateKey:   "SECRET",
		IsTest:       true,
		SuccessURL:   "https://c",
		CancelURL:    "https://a",
		ErrorURL:     "https://b",
		NotifyURL:    "https://d",
	}
}

func TestOzowRequestHashPinned(t *testing.T) {
	r := &OzowRequest{
		SiteCode:             "TEST-001",
		CountryCode:          "ZA",
		CurrencyCode:         "ZAR",
		Amount:               "100.00",
		TransactionReference: "ORD-1",
		BankReference:        "TESTBANK",
		CancelURL:            "https://a",
		ErrorURL:             "https://b",
		SuccessURL:           "https://c",
		NotifyURL:            "https://d",
		IsTest:               "true",
	}
	want := "f5f1302dd7e312f9c60d597b7ec78c1909eab41a85e634d3870bcd4f711722e8179a21407a0e3b553dacaaba4bc16bd0ed845af48e5a1ba3ac5e1fa94cbc1a13"
	assert.Equal(t, want, OzowRequestHash(r, "SECRET"))
}

func TestOzowRequestHashFieldOrderMatters(t *testing.T) {
	r := &OzowRequest{
		SiteCode:             "TEST-001",
		CountryCode:          "ZA",
		CurrencyCode:         "ZAR",
		Amount:               "100.00",
		TransactionReference: "ORD-1",
		BankReference:        "TESTBANK",
		CancelURL:            "https://a",
		ErrorURL:             "https://b",
		SuccessURL:           "https://c",
		NotifyURL:            "https://d",
		IsTest:               "true",
	}
	base := OzowRequestHash(r, "SECRET")

	swapped := *r
	swapped.CancelURL, swapped.ErrorURL = r.ErrorURL, r.CancelURL
	assert.NotEqual(t, base, OzowRequestHash(&swapped, "SECRET"),
		"swapping two url fields must change the digest")
}

func TestOzowRequestHashExcludesCustomerAndOptionals(t *testing.T) {
	client, err := NewOzowClient(testOzowConfig())
	require.NoError(t, err)

	a, err := client.BuildRequest(10000, "ORD-1", "TESTBANK", "")
	require.NoError(t, err)
	b, err := client.BuildRequest(10000, "ORD-1", "TESTBANK", "Jane Shopper")
	require.NoError(t, err)
	assert.Equal(t, a.HashCheck, b.HashCheck, "Customer travels in the form but never in the hash")

	c := *b
	c.Optional1 = "campaign-42"
	c.HashCheck = OzowRequestHash(&c, "SECRET")
	assert.Equal(t, a.HashCheck, c.HashCheck)
}

func TestOzowRequestHashLowercasesPreimage(t *testing.T) {
	upper := &OzowRequest{SiteCode: "TEST-001", CountryCode: "ZA", Amount: "100.00", IsTest: "TRUE"}
	lower := &OzowRequest{SiteCode: "test-001", CountryCode: "za", Amount: "100.00", IsTest: "true"}
	assert.Equal(t, OzowRequestHash(lower, "secret"), OzowRequestHash(upper, "SECRET"))
}

func TestOzowNotificationHashPinned(t *testing.T) {
	n := &OzowNotification{
		SiteCode:             "TEST-001",
		TransactionID:        "8cf9a3e6-b29e-4b66-94b9-e96d7e3b9f3c",
		TransactionReference: "ORD-1",
		Amount:               "100.00",
		Status:               "Complete",
		CurrencyCode:         "ZAR",
		IsTest:               "true",
		StatusMessage:        "Test transaction completed",
	}
	want := "5c8317eee6fe17b5babe18a9631c5791c48fced6b2622160c81d1a35b396811875f45030f73d7ba903d62e10f036384e9e46fbe239b61758c58357853545e92d"
	assert.Equal(t, want, OzowNotificationHash(n, "SECRET"))
}

func TestVerifyNotificationRoundTrip(t *testing.T) {
	client, err := NewOzowClient(testOzowConfig())
	require.NoError(t, err)

	n := &OzowNotification{
		SiteCode:             "TEST-001",
		TransactionID:        "TX-99",
		TransactionReference: "ORD-2",
		Amount:               "250.00",
		Status:               "Complete",
		CurrencyCode:         "ZAR",
		IsTest:               "true",
		StatusMessage:        "ok",
	}
	n.Hash = OzowNotificationHash(n, "SECRET")
	assert.True(t, client.VerifyNotification(n))

	n.Hash = strings.ToUpper(n.Hash)
	assert.True(t, client.VerifyNotification(n), "received hash casing is normalized")

	tampered := *n
	tampered.Amount = "9999.00"
	tampered.Hash = OzowNotificationHash(n, "SECRET")
	assert.False(t, client.VerifyNotification(&tampered))

	n.Hash = ""
	assert.False(t, client.VerifyNotification(n))
	assert.False(t, client.VerifyNotification(nil))
}

func TestVerifyNotificationStripsLeadingZeros(t *testing.T) {
	// This vector's digest begins with '0'; some gateway deliveries arrive
	// with that character dropped and must still verify.
	client, err := NewOzowClient(testOzowConfig())
	require.NoError(t, err)

	n := &OzowNotification{
		SiteCode:             "TEST-001",
		TransactionID:        "TX-1",
		TransactionReference: "ORD-4",
		Amount:               "100.00",
		Status:               "Complete",
		CurrencyCode:         "ZAR",
		IsTest:               "true",
	}
	full := "0c8726d1f0a8eefff08b8d55ccbe6fba9697912c49d5de8413c321d6f7cc82858fc6ee26260dd175ab4cb87aab70ff924487041ec2aa232b1c82c0b0dd1b67d7"
	require.Equal(t, full, OzowNotificationHash(n, "SECRET"))

	n.Hash = full
	assert.True(t, client.VerifyNotification(n))
	n.Hash = full[1:]
	assert.True(t, client.VerifyNotification(n), "digest with leading zero stripped must still verify")
}

func TestSanitizeBankReference(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ORD-1", "ORD-1"},
		{"Pool Beanbag #42!", "Pool Beanbag 42"},
		{"ref_with_underscores", "refwithunderscores"},
		{"THIS-REFERENCE-IS-FAR-TOO-LONG-FOR-A-STATEMENT", "THIS-REFERENCE-IS-FA"},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SanitizeBankReference(tc.in), "input %q", tc.in)
	}
}

func TestNewOzowClientValidatesConfig(t *testing.T) {
	cfg := testOzowConfig()
	cfg.PrivateKey = ""
	_, err := NewOzowClient(cfg)
	require.ErrorIs(t, err, ErrConfigMissing)

	cfg = testOzowConfig()
	cfg.NotifyURL = ""
	_, err = NewOzowClient(cfg)
	require.ErrorIs(t, err, ErrConfigMissing)
}

func TestOzowFormValuesOmitEmptyOptionals(t *testing.T) {
	client, err := NewOzowClient(testOzowConfig())
	require.NoError(t, err)
	req, err := client.BuildRequest(52900, "ORD-3", "", "")
	require.NoError(t, err)

	v := req.FormValues()
	assert.Equal(t, "529.00", v.Get("Amount"))
	assert.Equal(t, "ORD-3", v.Get("TransactionReference"))
	assert.Equal(t, "ORD-3", v.Get("BankReference"), "bank reference defaults to the payment reference")
	assert.NotEmpty(t, v.Get("HashCheck"))
	_, hasCustomer := v["Customer"]
	assert.False(t, hasCustomer)
	_, hasOpt := v["Optional1"]
	assert.False(t, hasOpt)
}

func TestBuildRequestRequiresReference(t *testing.T) {
	client, err := NewOzowClient(testOzowConfig())
	require.NoError(t, err)
	_, err = client.BuildRequest(100, "", "", "")
	assert.Error(t, err)
}
