package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromFloat(1234.5), "₹1234.50"},
		{decimal.Zero, "₹0.00"},
		{decimal.RequireFromString("12.499"), "₹12.50"},
		{decimal.NewFromInt(7), "₹7.00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Format(tc.in))
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "₹1234.50", FormatFloat(1234.5))
	assert.Equal(t, "₹0.00", FormatFloat(0))
}

func TestLegacyDollarKeepsBothSymbols(t *testing.T) {
	assert.Equal(t, "$₹35.00", LegacyDollar(decimal.NewFromInt(35)))
}
