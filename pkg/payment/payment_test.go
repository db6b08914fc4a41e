package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{52900, "529.00"},
		{52901, "529.01"},
		{1234567, "12345.67"},
		{-150, "-1.50"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatAmount(tc.cents), "cents %d", tc.cents)
	}
}

func TestParseAmountCents(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"529.00", 52900},
		{"529", 52900},
		{"0.05", 5},
		{"0.1", 10},
		{"12345.67", 1234567},
	}
	for _, tc := range tests {
		got, err := ParseAmountCents(tc.in)
		assert.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseAmountCentsRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "12,50"} {
		_, err := ParseAmountCents(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 52900, 999999999} {
		got, err := ParseAmountCents(FormatAmount(cents))
		assert.NoError(t, err)
		assert.Equal(t, cents, got)
	}
}
