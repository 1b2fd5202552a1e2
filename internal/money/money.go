// Package money holds the few arithmetic rules every peso amount in the
// system must follow: two-decimal precision, half-up rounding, and never
// going negative on an account balance.
package money

import (
	"github.com/shopspring/decimal"
)

// RoundToCent rounds to the currency's minor unit using half-up.
// decimal.Round is half-away-from-zero, which is half-up for the
// non-negative amounts this system deals in.
func RoundToCent(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FloorZero clamps a balance at zero. Overpayment of the tariff does not
// produce credit; the remainder is simply absorbed.
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// IsPositive reports whether the amount is strictly greater than zero.
func IsPositive(d decimal.Decimal) bool {
	return d.Sign() > 0
}

// Format renders an amount in exact decimal form with two places, the
// only representation allowed in API payloads and error messages.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
