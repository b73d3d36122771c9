// Package currency formats money for display.
package currency

import "github.com/shopspring/decimal"

// Symbol is the only currency the POS displays.
const Symbol = "₹"

// Format renders amount as Symbol followed by the value fixed to two decimals,
// e.g. ₹1234.50.
func Format(amount decimal.Decimal) string {
	return Symbol + amount.StringFixed(2)
}

// FormatFloat is Format for plain float amounts.
func FormatFloat(amount float64) string {
	return Format(decimal.NewFromFloat(amount))
}

// LegacyDollar is how the sales list and sale detail tables render totals:
// a "$" in front of the already formatted amount, giving "$₹12.00".
func LegacyDollar(amount decimal.Decimal) string {
	return "$" + Format(amount)
}
