package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[string]string{
		"0":          "₹0.00",
		"30":         "₹30.00",
		"10.5":       "₹10.50",
		"999.99":     "₹999.99",
		"1000":       "₹1,000.00",
		"12345.5":    "₹12,345.50",
		"1234567.89": "₹1,234,567.89",
		"-45.1":      "-₹45.10",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrency(decimal.RequireFromString(in)), in)
	}
}
