package payment

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrConfigMissing is returned when a gateway client is constructed without a
// required merchant credential or callback URL. Callers must treat it as
// fatal at startup - never attempt to sign or send with partial config.
var ErrConfigMissing = errors.New("payment: missing configuration")

// FormatAmount renders integer cents as the 2-decimal string both gateways
// require ("52900 -> 529.00"). Currency amounts are strings on the wire,
// never floats.
func FormatAmount(cents int64) string {
	neg := ""
	if cents < 0 {
		neg = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", neg, cents/100, cents%100)
}

// ParseAmountCents parses a gateway-declared decimal amount ("529.00") into
// integer cents, rounding to absorb string-to-float round-tripping.
func ParseAmountCents(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("payment: bad amount %q: %w", s, err)
	}
	return int64(math.Round(f * 100)), nil
}
