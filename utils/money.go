package utils

import "github.com/shopspring/decimal"

// DisplayAmount rounds a money amount to the two decimals shown to customers.
// Calculations keep full precision; only presentation rounds.
func DisplayAmount(d decimal.Decimal) string {
	return d.StringFixedBank(2)
}
