package domain

import "github.com/shopspring/decimal"

// DefaultTaxRate is the single flat rate applied to every cart.
var DefaultTaxRate = decimal.NewFromFloat(0.08)

// Totals are derived from the current cart lines on every observation and
// never stored.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals sums price*quantity over the lines and applies taxRate.
// Subtotal and tax are rounded to two decimals independently; total is their
// exact sum, so total == subtotal + tax always holds.
func ComputeTotals(lines []CartLine, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
